package modeling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"spotifyeda/internal/dataprocessing"
)

// Metrics holds the headline evaluation scores
type Metrics struct {
	Accuracy float64 `json:"accuracy"`
	F1Macro  float64 `json:"f1_macro"`
}

// ConfusionMatrix counts predictions per true label. Counts[i][j] is the
// number of samples with true label Labels[i] predicted as Labels[j].
type ConfusionMatrix struct {
	Labels []string `json:"labels"`
	Counts [][]int  `json:"counts"`
}

// classScores are the per-label precision, recall and F1
type classScores struct {
	label     string
	precision float64
	recall    float64
	f1        float64
	support   int
}

// sortLabels returns the distinct labels of the given sets, ordered
// numerically when every label parses as a number and lexicographically
// otherwise.
func sortLabels(sets ...[]string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, set := range sets {
		for _, l := range set {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}

	numeric := make(map[string]float64, len(labels))
	for _, l := range labels {
		v, ok := dataprocessing.ParseNumber(l)
		if !ok {
			numeric = nil
			break
		}
		numeric[l], _ = v.Float()
	}

	sort.Slice(labels, func(i, j int) bool {
		if numeric != nil && numeric[labels[i]] != numeric[labels[j]] {
			return numeric[labels[i]] < numeric[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

// NewConfusionMatrix tallies yTrue against yPred over the union of their labels
func NewConfusionMatrix(yTrue, yPred []string) ConfusionMatrix {
	labels := sortLabels(yTrue, yPred)
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		counts[idx[yTrue[i]]][idx[yPred[i]]]++
	}
	return ConfusionMatrix{Labels: labels, Counts: counts}
}

// String renders the matrix with labels on both axes
func (cm ConfusionMatrix) String() string {
	width := 4
	for _, l := range cm.Labels {
		if len(l) > width {
			width = len(l)
		}
	}
	for _, row := range cm.Counts {
		for _, c := range row {
			if w := len(strconv.Itoa(c)); w > width {
				width = w
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s", width, "")
	for _, l := range cm.Labels {
		fmt.Fprintf(&b, " %*s", width, l)
	}
	b.WriteByte('\n')
	for i, row := range cm.Counts {
		fmt.Fprintf(&b, "%*s", width, cm.Labels[i])
		for _, c := range row {
			fmt.Fprintf(&b, " %*d", width, c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Evaluate computes accuracy and macro-averaged F1
func Evaluate(yTrue, yPred []string) Metrics {
	if len(yTrue) == 0 {
		return Metrics{}
	}
	scores := perClassScores(NewConfusionMatrix(yTrue, yPred))
	return Metrics{
		Accuracy: accuracy(yTrue, yPred),
		F1Macro:  macroAverage(scores).f1,
	}
}

// ClassificationReport renders precision, recall, f1-score and support per
// label followed by accuracy, macro and weighted averages.
func ClassificationReport(yTrue, yPred []string) string {
	scores := perClassScores(NewConfusionMatrix(yTrue, yPred))

	width := len("weighted avg")
	for _, s := range scores {
		if len(s.label) > width {
			width = len(s.label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, s := range scores {
		writeReportRow(&b, width, s)
	}
	b.WriteByte('\n')

	total := len(yTrue)
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", accuracy(yTrue, yPred), total)
	macro := macroAverage(scores)
	macro.label, macro.support = "macro avg", total
	writeReportRow(&b, width, macro)
	weighted := weightedAverage(scores)
	weighted.label, weighted.support = "weighted avg", total
	writeReportRow(&b, width, weighted)
	return b.String()
}

func writeReportRow(b *strings.Builder, width int, s classScores) {
	fmt.Fprintf(b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, s.label, s.precision, s.recall, s.f1, s.support)
}

func accuracy(yTrue, yPred []string) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var hits int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// perClassScores derives scores from the matrix. Undefined ratios are 0.
func perClassScores(cm ConfusionMatrix) []classScores {
	out := make([]classScores, len(cm.Labels))
	for i, label := range cm.Labels {
		tp := cm.Counts[i][i]
		var predicted, support int
		for j := range cm.Labels {
			predicted += cm.Counts[j][i]
			support += cm.Counts[i][j]
		}

		s := classScores{label: label, support: support}
		if predicted > 0 {
			s.precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			s.recall = float64(tp) / float64(support)
		}
		if s.precision+s.recall > 0 {
			s.f1 = 2 * s.precision * s.recall / (s.precision + s.recall)
		}
		out[i] = s
	}
	return out
}

func macroAverage(scores []classScores) classScores {
	var avg classScores
	if len(scores) == 0 {
		return avg
	}
	for _, s := range scores {
		avg.precision += s.precision
		avg.recall += s.recall
		avg.f1 += s.f1
	}
	n := float64(len(scores))
	avg.precision /= n
	avg.recall /= n
	avg.f1 /= n
	return avg
}

func weightedAverage(scores []classScores) classScores {
	var avg classScores
	var total int
	for _, s := range scores {
		w := float64(s.support)
		avg.precision += w * s.precision
		avg.recall += w * s.recall
		avg.f1 += w * s.f1
		total += s.support
	}
	if total > 0 {
		avg.precision /= float64(total)
		avg.recall /= float64(total)
		avg.f1 /= float64(total)
	}
	return avg
}
