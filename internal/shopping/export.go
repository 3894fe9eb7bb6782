package shopping

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"foodgram/internal/logger"
	"foodgram/internal/metrics"
)

// ListRenderer turns an aggregated list into a document.
type ListRenderer interface {
	Render(w io.Writer, list *List) error
}

// Owner identifies whose cart is exported.
type Owner struct {
	ID       int64
	Username string
}

type Exporter struct {
	aggregator *Aggregator
	renderer   ListRenderer
	tempDir    string
	log        *logger.Logger
}

// NewExporter wires the pipeline. An empty tempDir means os.TempDir().
func NewExporter(aggregator *Aggregator, renderer ListRenderer, tempDir string, log *logger.Logger) *Exporter {
	return &Exporter{
		aggregator: aggregator,
		renderer:   renderer,
		tempDir:    tempDir,
		log:        log.With("service", "ShoppingExporter"),
	}
}

// Filename is shopping_list_<username>.pdf with the username percent-encoded.
func Filename(username string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(username), "+", "%20")
	return "shopping_list_" + escaped + ".pdf"
}

// Export aggregates the owner's cart, renders it into a scratch file and
// returns the file name for the attachment with the document bytes. The
// scratch file is removed on every path.
func (e *Exporter) Export(ctx context.Context, owner Owner) (string, []byte, error) {
	start := time.Now()

	data, rows, err := e.export(ctx, owner)
	metrics.ObserveShoppingExport(rows, time.Since(start), err)
	if err != nil {
		e.log.Error("shopping list export failed", "user_id", owner.ID, "error", err)
		return "", nil, err
	}

	e.log.Info("shopping list exported",
		"user_id", owner.ID,
		"rows", rows,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return Filename(owner.Username), data, nil
}

func (e *Exporter) export(ctx context.Context, owner Owner) ([]byte, int, error) {
	list, err := e.aggregator.Aggregate(ctx, owner.ID)
	if err != nil {
		return nil, 0, err
	}

	tmp, err := os.CreateTemp(e.tempDir, "shopping-list-*.pdf")
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	renderErr := e.renderer.Render(tmp, list)
	closeErr := tmp.Close()
	if renderErr != nil {
		return nil, 0, renderErr
	}
	if closeErr != nil {
		return nil, 0, fmt.Errorf("close temp file: %w", closeErr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read temp file: %w", err)
	}
	return data, list.Len(), nil
}
