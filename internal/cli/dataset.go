package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/index"
	"github.com/roach88/bioindex/internal/loader"
	"github.com/roach88/bioindex/internal/store"
)

// loadedDataset is a dataset plus where it came from.
type loadedDataset struct {
	*loader.Result
	Source string
}

// sourceError is a dataset loading failure tagged with its E-code.
type sourceError struct {
	Code string
	Err  error
}

func (e *sourceError) Error() string { return e.Err.Error() }
func (e *sourceError) Unwrap() error { return e.Err }

var errNoSource = errors.New("no dataset configured: set --sample, --db, or both --nodes and --technologies")

// loadDataset reads the built-in sample when --sample is set, then --db,
// then --nodes/--technologies.
func (o *RootOptions) loadDataset(ctx context.Context) (*loadedDataset, error) {
	if o.Database != "" && !o.Sample {
		return o.loadFromStore(ctx)
	}
	return o.loadFromFiles()
}

// loadFromFiles reads --nodes/--technologies, or the built-in sample when
// --sample is set.
func (o *RootOptions) loadFromFiles() (*loadedDataset, error) {
	var (
		res    *loader.Result
		source string
		err    error
	)
	switch {
	case o.Sample:
		res, err = loader.LoadSample()
		source = loader.SampleSource
	case o.NodesFile == "" || o.TechnologiesFile == "":
		return nil, &sourceError{Code: ErrCodeNoSource, Err: errNoSource}
	default:
		res, err = loader.LoadFiles(o.NodesFile, o.TechnologiesFile)
		source = o.NodesFile + "," + o.TechnologiesFile
	}
	if err != nil {
		return nil, &sourceError{Code: ErrCodeInvalidDataset, Err: err}
	}

	logger := o.logger()
	for _, issue := range res.Issues {
		logger.Warn("record skipped", "issue", issue.String())
	}
	for _, w := range res.Warnings {
		logger.Debug("record warning", "issue", w.String())
	}
	return &loadedDataset{Result: res, Source: source}, nil
}

func (o *RootOptions) loadFromStore(ctx context.Context) (*loadedDataset, error) {
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, &sourceError{Code: ErrCodeStore, Err: err}
	}
	defer st.Close()

	ds, err := st.LoadDataset(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return nil, &sourceError{
			Code: ErrCodeNotInitialized,
			Err:  fmt.Errorf("database %s: %w: run 'bioindex import' first", o.Database, err),
		}
	}
	if err != nil {
		return nil, &sourceError{Code: ErrCodeStore, Err: err}
	}

	res := &loader.Result{
		Dataset:  ds,
		Issues:   []catalog.RecordIssue{},
		Warnings: []catalog.RecordIssue{},
	}
	return &loadedDataset{Result: res, Source: o.Database}, nil
}

// buildIndex loads the dataset and publishes a snapshot.
func (o *RootOptions) buildIndex(ctx context.Context) (*index.Index, *index.Snapshot, error) {
	ld, err := o.loadDataset(ctx)
	if err != nil {
		return nil, nil, err
	}

	ix := index.New(index.WithLogger(o.logger()))
	snap, err := ix.Build(ld.Dataset)
	if err != nil {
		return nil, nil, err
	}
	return ix, snap, nil
}

// errorCode maps an error to its E-code and exit code.
func errorCode(err error) (string, int) {
	var (
		src       *sourceError
		integrity *index.IntegrityError
	)
	switch {
	case errors.As(err, &src):
		return src.Code, ExitCommandError
	case errors.As(err, &integrity):
		return ErrCodeIntegrity, ExitCommandError
	case errors.Is(err, index.ErrNotFound):
		return ErrCodeNotFound, ExitFailure
	case errors.Is(err, index.ErrNotInitialized):
		return ErrCodeNotInitialized, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// reportError writes err through f and returns the matching *ExitError.
func reportError(f *OutputFormatter, err error) error {
	code, exit := errorCode(err)

	var details interface{}
	var integrity *index.IntegrityError
	if errors.As(err, &integrity) {
		details = integrity
	}

	_ = f.Error(code, err.Error(), details)
	exitErr := WrapExitError(exit, code, err)
	exitErr.Reported = true
	return exitErr
}
