package modeling

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortLabels(t *testing.T) {
	tests := []struct {
		name string
		sets [][]string
		want []string
	}{
		{"numeric", [][]string{{"10", "9"}, {"2", "9"}}, []string{"2", "9", "10"}},
		{"text", [][]string{{"rock", "pop"}, {"jazz"}}, []string{"jazz", "pop", "rock"}},
		{"mixed falls back to text", [][]string{{"10", "a", "9"}}, []string{"10", "9", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortLabels(tt.sets...))
		})
	}
}

func TestEvaluate(t *testing.T) {
	yTrue := []string{"a", "a", "b", "b"}
	yPred := []string{"a", "b", "b", "b"}

	m := Evaluate(yTrue, yPred)
	assert.InDelta(t, 0.75, m.Accuracy, 1e-12)
	// f1(a) = 2/3, f1(b) = 0.8
	assert.InDelta(t, (2.0/3.0+0.8)/2, m.F1Macro, 1e-12)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accuracy":0.75`)
	assert.Contains(t, string(data), `"f1_macro":`)
}

func TestNewConfusionMatrix(t *testing.T) {
	yTrue := []string{"2", "1", "2", "3"}
	yPred := []string{"2", "2", "1", "3"}

	cm := NewConfusionMatrix(yTrue, yPred)
	assert.Equal(t, []string{"1", "2", "3"}, cm.Labels)
	assert.Equal(t, [][]int{
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	}, cm.Counts)

	lines := strings.Split(strings.TrimRight(cm.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"1", "2", "3"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2", "1", "1", "0"}, strings.Fields(lines[2]))
}

func TestNewConfusionMatrix_PredictionOnlyLabel(t *testing.T) {
	cm := NewConfusionMatrix([]string{"a", "a"}, []string{"a", "z"})

	assert.Equal(t, []string{"a", "z"}, cm.Labels)
	assert.Equal(t, [][]int{{1, 1}, {0, 0}}, cm.Counts)
}

func TestClassificationReport(t *testing.T) {
	report := ClassificationReport(
		[]string{"a", "a", "b", "b"},
		[]string{"a", "b", "b", "b"},
	)

	rows := map[string][]string{}
	for _, line := range strings.Split(report, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "macro", "weighted":
			rows[fields[0]+" "+fields[1]] = fields[2:]
		default:
			rows[fields[0]] = fields[1:]
		}
	}

	assert.Equal(t, []string{"recall", "f1-score", "support"}, rows["precision"])
	assert.Equal(t, []string{"1.00", "0.50", "0.67", "2"}, rows["a"])
	assert.Equal(t, []string{"0.67", "1.00", "0.80", "2"}, rows["b"])
	assert.Equal(t, []string{"0.75", "4"}, rows["accuracy"])
	assert.Equal(t, []string{"0.83", "0.75", "0.73", "4"}, rows["macro avg"])
	assert.Equal(t, []string{"0.83", "0.75", "0.73", "4"}, rows["weighted avg"])
}
