package mcmt

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sampler specific helpers so operations
// log with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a Logger writing to handler, or text to stderr at
// info level when handler is nil.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger returns a Logger writing text records at level and above
// to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger returns a Logger that drops every record.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// LogTriangulation logs a rebuilt triangulation.
func (l *Logger) LogTriangulation(op string, vertices, finite int, elapsed time.Duration) {
	l.Debug("triangulation rebuilt",
		"op", op,
		"vertices", vertices,
		"finite_tetrahedra", finite,
		"elapsed", elapsed,
	)
}

// LogRollback logs the point store being truncated after the
// triangulation degenerated.
func (l *Logger) LogRollback(from, to int) {
	l.Warn("degenerate triangulation, rolling back",
		"points", from,
		"restored", to,
	)
}

// LogSample logs a finished sampling run.
func (l *Logger) LogSample(kind string, requested, candidates int, elapsed time.Duration) {
	l.Debug("sampling completed",
		"sampler", kind,
		"requested", requested,
		"candidates", candidates,
		"elapsed", elapsed,
	)
}

// LogDensity logs the estimator built for rejection sampling.
func (l *Logger) LogDensity(points, neighbors int, meanWeight float64) {
	l.Debug("density estimator built",
		"points", points,
		"neighbors", neighbors,
		"mean_weight", meanWeight,
	)
}

// LogMidPoints logs a midpoint refinement pass.
func (l *Logger) LogMidPoints(tetrahedra, accepted int, elapsed time.Duration) {
	l.Debug("midpoints computed",
		"tetrahedra", tetrahedra,
		"accepted", accepted,
		"elapsed", elapsed,
	)
}

// LogMesh logs an extracted mesh.
func (l *Logger) LogMesh(kind string, vertices, triangles int) {
	l.Debug("mesh extracted",
		"kind", kind,
		"vertices", vertices,
		"triangles", triangles,
	)
}

// LogSave logs a file export.
func (l *Logger) LogSave(path string, err error) {
	if err != nil {
		l.Error("save failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("saved",
			"path", path,
		)
	}
}
