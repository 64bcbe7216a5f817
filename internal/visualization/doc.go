// Package visualization renders exploratory figures for cleaned datasets:
// per-column histograms and a correlation heat map. Figures are written with
// gonum/plot; the output format follows the file extension (.png, .svg, .pdf).
package visualization
