// Package export drives the per-page pipeline: fetch storage markup, pull
// attachments, repair the tree, rewrite image macros, convert to Markdown,
// post-process, and write the final document.
//
// Pages are independent; one page failing is logged and counted, never
// fatal for the batch.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/confmill/confmill/confluence"
	"github.com/confmill/confmill/convert"
	"github.com/confmill/confmill/markup"
	"github.com/confmill/confmill/mdpost"
	"github.com/confmill/confmill/store"
)

// Stats summarizes one space export.
type Stats struct {
	Pages       int
	Exported    int
	Skipped     int
	Failed      int
	Attachments int
}

// Exporter exports the pages of one space.
type Exporter struct {
	cfg    Config
	client *confluence.Client
	state  *store.Store // nil disables incremental skipping
	conv   *convert.Converter
}

// New creates an Exporter. state may be nil.
func New(cfg Config, client *confluence.Client, state *store.Store) *Exporter {
	cfg.defaults()
	return &Exporter{
		cfg:    cfg,
		client: client,
		state:  state,
		conv:   convert.New(convert.Config{SanitizeHTML: cfg.SanitizeHTML}),
	}
}

// ExportSpace exports every current page of the configured space.
func (e *Exporter) ExportSpace(ctx context.Context) (Stats, error) {
	var stats Stats

	pages, err := e.client.Pages(ctx, e.cfg.Space)
	if err != nil {
		return stats, fmt.Errorf("export: %w", err)
	}
	stats.Pages = len(pages)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		log := e.cfg.Logger.With("page_id", page.ID, "title", page.Title)

		exported, attachments, err := e.ExportPage(ctx, page)
		stats.Attachments += attachments
		switch {
		case err != nil:
			log.Error("page export failed", "error", err)
			stats.Failed++
		case exported:
			log.Info("page exported")
			stats.Exported++
		default:
			log.Debug("page unchanged, skipped")
			stats.Skipped++
		}
	}
	return stats, nil
}

// ExportPage runs the full pipeline for one page. It returns whether the
// page was written (false means it was skipped as unchanged) and how many
// attachments were stored.
func (e *Exporter) ExportPage(ctx context.Context, page confluence.Page) (bool, int, error) {
	content, err := e.client.PageBody(ctx, page.ID)
	if err != nil {
		return false, 0, err
	}

	sum := sha256.Sum256([]byte(content.StorageHTML))
	hash := hex.EncodeToString(sum[:])
	if e.cfg.Incremental && e.state != nil {
		prev, err := e.state.PageHash(ctx, page.ID)
		if err != nil {
			// A broken state lookup falls back to a full re-export.
			e.cfg.Logger.Warn("export: read state", "page_id", page.ID, "error", err)
		} else if prev != "" && prev == hash {
			return false, 0, nil
		}
	}

	attachments, stored := e.storeAttachments(ctx, page.ID)

	tree, err := markup.Parse(content.StorageHTML)
	if err != nil {
		return false, stored, err
	}
	markup.Preprocess(tree)
	markup.RewriteAttachments(tree, page.ID, attachments)

	body, err := e.conv.Markdown(tree)
	if err != nil {
		return false, stored, err
	}
	body = mdpost.Process(body)
	toc := mdpost.GenerateTOC(body)

	title := strings.ReplaceAll(content.Title, "/", "_")
	doc := Assemble(title, toc, body)
	if err := writeFileAtomic(filepath.Join(e.cfg.OutputDir, title+".md"), []byte(doc)); err != nil {
		return false, stored, err
	}

	if e.state != nil {
		if err := e.state.RecordExport(ctx, page.ID, title, hash); err != nil {
			e.cfg.Logger.Warn("export: record state", "page_id", page.ID, "error", err)
		}
	}
	return true, stored, nil
}

// storeAttachments downloads every attachment of a page into
// <output>/attachments/<pageID>/ and returns the map of original display
// name to sanitized local filename. A failed download is logged and
// omitted from the map, which leaves its image reference unrewritten.
func (e *Exporter) storeAttachments(ctx context.Context, pageID string) (map[string]string, int) {
	result := map[string]string{}

	list, err := e.client.Attachments(ctx, pageID)
	if err != nil {
		e.cfg.Logger.Warn("export: list attachments", "page_id", pageID, "error", err)
		return result, 0
	}

	stored := 0
	for _, att := range list {
		name := SanitizeFilename(att.Title)
		if name == "" {
			continue
		}
		var buf bytes.Buffer
		if err := e.client.Download(ctx, att.Links.Download, &buf); err != nil {
			e.cfg.Logger.Warn("export: download attachment",
				"page_id", pageID, "attachment", att.Title, "error", err)
			continue
		}
		path := filepath.Join(e.cfg.OutputDir, "attachments", pageID, name)
		if err := writeFileAtomic(path, buf.Bytes()); err != nil {
			e.cfg.Logger.Warn("export: store attachment",
				"page_id", pageID, "attachment", att.Title, "error", err)
			continue
		}
		result[att.Title] = name
		stored++
	}
	return result, stored
}

// Assemble builds the final document: title heading, the "Table of
// Contents" heading with the generated list, then the processed body.
func Assemble(title, toc, body string) string {
	return "# " + title + "\n\n# Table of Contents\n\n" + toc + "\n\n" + body
}
