// Package operations runs the cleaning pipeline as a sequence of named steps:
//
//   - load: read the source into a Dataset
//   - normalize: canonicalize column names
//   - clean: deduplicate, filter short tracks, coerce numeric text
//   - save: hand the result to the sink
//
// Each step records a StepState (status, timing, error, metadata), runs
// inside its own trace span and reports its duration to the stage histogram.
// Cancellation of the context is honoured between steps.
//
// Example usage:
//
//	p := operations.NewPipeline(operations.Options{Logger: logger})
//	res, err := p.Run(ctx, operations.Request{
//		Source: operations.FileSource("data/raw/spotify.csv", ""),
//		Sink:   operations.CSVSink(writer, "clean_spotify.csv", exporter.WriteOptions{}),
//	})
package operations
