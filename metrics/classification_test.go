package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "All correct",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "All wrong",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{1, 0, 0, 1},
			want:  0.0,
		},
		{
			name:  "Three of four",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 0, 0},
			want:  0.75,
		},
		{
			name:  "Near-integer labels round before comparison",
			yTrue: []float64{0, 1, 1},
			yPred: []float64{0.0001, 0.9999, 1.0001},
			want:  1.0,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			} else {
				yTrue = &mat.VecDense{}
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			} else {
				yPred = &mat.VecDense{}
			}

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(8, []float64{1, 1, 1, 1, 0, 0, 0, 0})
	yPred := mat.NewVecDense(8, []float64{1, 1, 1, 0, 0, 0, 1, 1})

	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	if cm.TruePositives != 3 {
		t.Errorf("TruePositives = %d, want 3", cm.TruePositives)
	}
	if cm.FalseNegatives != 1 {
		t.Errorf("FalseNegatives = %d, want 1", cm.FalseNegatives)
	}
	if cm.TrueNegatives != 2 {
		t.Errorf("TrueNegatives = %d, want 2", cm.TrueNegatives)
	}
	if cm.FalsePositives != 2 {
		t.Errorf("FalsePositives = %d, want 2", cm.FalsePositives)
	}

	if got, want := cm.Sensitivity(), 0.75; math.Abs(got-want) > 1e-9 {
		t.Errorf("Sensitivity() = %v, want %v", got, want)
	}
	if got, want := cm.Specificity(), 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Specificity() = %v, want %v", got, want)
	}
	if got, want := cm.Accuracy(), 0.625; math.Abs(got-want) > 1e-9 {
		t.Errorf("Accuracy() = %v, want %v", got, want)
	}
}

func TestConfusionMatrix_NonBinary(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{0, 1, 2})
	yPred := mat.NewVecDense(3, []float64{0, 1, 1})

	if _, err := NewConfusionMatrix(yTrue, yPred); err == nil {
		t.Error("expected error for non-binary labels")
	}
}

func TestSensitivitySpecificity_Undefined(t *testing.T) {
	// No positive labels: sensitivity undefined, returns 0.
	yTrue := mat.NewVecDense(3, []float64{0, 0, 0})
	yPred := mat.NewVecDense(3, []float64{0, 1, 0})

	sens, err := Sensitivity(yTrue, yPred)
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if sens != 0 {
		t.Errorf("Sensitivity() = %v, want 0 for undefined case", sens)
	}

	// No negative labels: specificity undefined, returns 0.
	yTrueAllPos := mat.NewVecDense(3, []float64{1, 1, 1})
	spec, err := Specificity(yTrueAllPos, yPred)
	if err != nil {
		t.Fatalf("Specificity() error = %v", err)
	}
	if spec != 0 {
		t.Errorf("Specificity() = %v, want 0 for undefined case", spec)
	}
}

func TestMetricsBounded(t *testing.T) {
	// Randomish fixed vectors; every metric must stay within [0, 1].
	yTrue := mat.NewVecDense(10, []float64{0, 1, 1, 0, 1, 0, 0, 1, 1, 0})
	yPred := mat.NewVecDense(10, []float64{1, 1, 0, 0, 1, 1, 0, 0, 1, 0})

	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}
	auc, err := ROCAUC(yTrue, yPred)
	if err != nil {
		t.Fatalf("ROCAUC() error = %v", err)
	}

	for name, v := range map[string]float64{
		"accuracy":    acc,
		"sensitivity": cm.Sensitivity(),
		"specificity": cm.Specificity(),
		"roc_auc":     auc,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, outside [0, 1]", name, v)
		}
	}
}

func TestLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yProba  []float64
		want    float64
		wantErr bool
	}{
		{
			name:   "Confident and correct",
			yTrue:  []float64{1, 0},
			yProba: []float64{0.9, 0.1},
			want:   -math.Log(0.9),
		},
		{
			name:   "Uninformative half probabilities",
			yTrue:  []float64{1, 0, 1, 0},
			yProba: []float64{0.5, 0.5, 0.5, 0.5},
			want:   math.Log(2),
		},
		{
			name:    "Length mismatch",
			yTrue:   []float64{1, 0},
			yProba:  []float64{0.5},
			wantErr: true,
		},
		{
			name:    "Probability out of range",
			yTrue:   []float64{1},
			yProba:  []float64{1.5},
			wantErr: true,
		},
		{
			name:    "Empty",
			yTrue:   nil,
			yProba:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yProba *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			} else {
				yTrue = &mat.VecDense{}
			}
			if len(tt.yProba) > 0 {
				yProba = mat.NewVecDense(len(tt.yProba), tt.yProba)
			} else {
				yProba = &mat.VecDense{}
			}

			got, err := LogLoss(yTrue, yProba)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LogLoss() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LogLoss() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLoss_ConfidentWrongStaysFinite(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{1, 0})
	yProba := mat.NewVecDense(2, []float64{0, 1})

	got, err := LogLoss(yTrue, yProba)
	if err != nil {
		t.Fatalf("LogLoss() error = %v", err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("LogLoss() = %v, want a finite clamped value", got)
	}
	if got <= math.Log(2) {
		t.Errorf("LogLoss() = %v, confident wrong predictions should cost more than chance", got)
	}
}
