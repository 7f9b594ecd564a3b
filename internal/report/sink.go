// Package report writes finalized results to durable storage and reads
// them back.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Sink consumes the results of one run.
type Sink interface {
	// Write stores results and returns where they went.
	Write(ctx context.Context, results []domain.Result) (string, error)
}

// Encode renders results as a JSON array. A non-empty indent pretty-prints.
func Encode(results []domain.Result, indent string) ([]byte, error) {
	if results == nil {
		results = []domain.Result{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(results); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FileSink writes each run to a new uniquely named file in Dir.
type FileSink struct {
	Dir    string
	Prefix string
	Indent string

	// newID names the file; tests replace it.
	newID func() (uuid.UUID, error)
}

// NewFileSink returns a FileSink writing into dir. An empty prefix uses
// constants.DefaultFilePrefix.
func NewFileSink(dir, prefix, indent string) *FileSink {
	if prefix == "" {
		prefix = constants.DefaultFilePrefix
	}
	return &FileSink{Dir: dir, Prefix: prefix, Indent: indent, newID: uuid.NewUUID}
}

// Write creates Dir if needed and writes results to
// <Prefix>.<time-based uuid>.json. The file appears complete or not at all.
func (s *FileSink) Write(ctx context.Context, results []domain.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Dir == "" {
		return "", xerrors.ErrOutputDirInvalid
	}

	data, err := Encode(results, s.Indent)
	if err != nil {
		return "", xerrors.Wrap(xerrors.ErrReportWriteFailed, err.Error())
	}

	if err = os.MkdirAll(s.Dir, dirPerm); err != nil {
		return "", xerrors.Wrapf(xerrors.ErrReportWriteFailed, "creating %s: %v", s.Dir, err)
	}

	newID := s.newID
	if newID == nil {
		newID = uuid.NewUUID
	}
	id, err := newID()
	if err != nil {
		return "", xerrors.Wrapf(xerrors.ErrReportWriteFailed, "generating file name: %v", err)
	}

	path := filepath.Join(s.Dir, s.Prefix+"."+id.String()+constants.ReportFileExt)
	if err = atomicWrite(path, data); err != nil {
		return "", xerrors.Wrap(xerrors.ErrReportWriteFailed, err.Error())
	}
	return path, nil
}

// StreamSink writes results to W, followed by a newline.
type StreamSink struct {
	W      io.Writer
	Indent string
}

// Write encodes results to the stream. The returned location is "-".
func (s StreamSink) Write(ctx context.Context, results []domain.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(results, s.Indent)
	if err != nil {
		return "", xerrors.Wrap(xerrors.ErrReportWriteFailed, err.Error())
	}
	if _, err = s.W.Write(append(data, '\n')); err != nil {
		return "", xerrors.Wrap(xerrors.ErrReportWriteFailed, err.Error())
	}
	return "-", nil
}

// Load reads a report written by a sink.
func Load(path string) ([]domain.Result, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is chosen by the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Wrapf(xerrors.ErrReportNotFound, "%s", path)
		}
		return nil, xerrors.Wrapf(err, "reading %s", path)
	}

	var results []domain.Result
	if err = json.Unmarshal(data, &results); err != nil {
		return nil, xerrors.Wrapf(err, "decoding %s", path)
	}
	return results, nil
}

// atomicWrite writes data next to path and renames it into place once
// synced.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + constants.TempFileSuffix
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return xerrors.Wrap(err, "failed to create temp file")
	}

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return xerrors.Wrap(err, "failed to write data")
	}

	if err = f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return xerrors.Wrap(err, "failed to sync file")
	}

	if err = f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return xerrors.Wrap(err, "failed to close file")
	}

	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return xerrors.Wrap(err, "failed to rename file")
	}
	return nil
}
