package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"apucli/internal/enrich"
	"apucli/internal/exporter"
	"apucli/internal/extraction"
	"apucli/internal/files"
	"apucli/internal/mapping"
	"apucli/internal/payloads"
	"apucli/pkg/contracts/domain"
)

// FlattenStep moves workbooks buried in subdirectories up to the input root.
type FlattenStep struct{}

func (s *FlattenStep) ID() string   { return "flatten" }
func (s *FlattenStep) Name() string { return "Flatten input directory" }

func (s *FlattenStep) Validate(state *State) error {
	if state.Config.Paths.InputDir == "" {
		return fmt.Errorf("input directory not configured")
	}
	return nil
}

func (s *FlattenStep) Execute(ctx context.Context, state *State) error {
	result, err := files.Flatten(state.Config.Paths.InputDir)
	if err != nil {
		return fmt.Errorf("failed to flatten %s: %w", state.Config.Paths.InputDir, err)
	}
	state.SetCount("files_moved", result.Moved)
	state.SetCount("dirs_removed", result.RemovedDirs)
	slog.InfoContext(ctx, "input directory flattened",
		slog.String("dir", state.Config.Paths.InputDir),
		slog.Int("moved", result.Moved),
		slog.Int("dirs_removed", result.RemovedDirs))
	return nil
}

// ExtractStep parses every workbook in the input directory and writes one
// consecutively numbered JSON document per workbook. Workbooks run
// concurrently; writes happen afterwards in discovery order so numbering
// stays deterministic.
type ExtractStep struct{}

func (s *ExtractStep) ID() string   { return "extract" }
func (s *ExtractStep) Name() string { return "Extract workbooks" }

func (s *ExtractStep) Validate(state *State) error {
	if state.Config.Paths.OutputDir == "" {
		return fmt.Errorf("output directory not configured")
	}
	if state.Config.Extraction.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

func (s *ExtractStep) Execute(ctx context.Context, state *State) error {
	discovery := files.NewDiscovery("")
	workbooks, err := discovery.FindExcelFiles(state.Config.Paths.InputDir)
	if err != nil {
		return fmt.Errorf("failed to list workbooks: %w", err)
	}
	state.SetCount("workbooks", len(workbooks))

	params := state.Config.Extraction.Params()
	docs := make([]*domain.Document, len(workbooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(state.Config.Extraction.Workers)
	for i, wb := range workbooks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := extraction.ExtractWorkbook(wb.Path, params)
			if err != nil {
				slog.WarnContext(gctx, "workbook skipped",
					slog.String("file", wb.Name),
					slog.String("error", err.Error()))
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(state.Config.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	writer := exporter.NewJSONWriter(state.Config.Paths.OutputDir)
	extracted := 0
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		path, err := writer.WriteDocument(doc)
		if err != nil {
			return fmt.Errorf("failed to write document for %s: %w", workbooks[i].Name, err)
		}
		extracted++
		slog.InfoContext(ctx, "workbook extracted",
			slog.String("file", workbooks[i].Name),
			slog.String("output", path),
			slog.Int("categories", len(doc.Categories)))
	}
	state.SetCount("extracted", extracted)
	state.SetCount("extract_failures", len(workbooks)-extracted)
	return nil
}

// MapStep rewrites extracted documents with chapter ids and budget ids into
// the mapped directory.
type MapStep struct{}

func (s *MapStep) ID() string   { return "map" }
func (s *MapStep) Name() string { return "Map chapters" }

func (s *MapStep) Validate(state *State) error {
	if state.Lookup == nil {
		return fmt.Errorf("no lookup source configured")
	}
	if state.Config.Paths.MappedDir == "" {
		return fmt.Errorf("mapped directory not configured")
	}
	return nil
}

func (s *MapStep) Execute(ctx context.Context, state *State) error {
	chapters, err := state.Lookup.Chapters(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch chapters: %w", err)
	}
	mappings := mapping.BuildMappings(chapters)
	slog.InfoContext(ctx, "chapter mappings built",
		slog.Int("chapters", len(chapters)),
		slog.Int("subcategories", len(mappings.APUToSubcategory)))

	discovery := files.NewDiscovery("")
	docs, err := discovery.FindJSONFiles(state.Config.Paths.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to list extracted documents: %w", err)
	}
	if err := os.MkdirAll(state.Config.Paths.MappedDir, 0755); err != nil {
		return fmt.Errorf("failed to create mapped directory: %w", err)
	}

	mapped := 0
	for _, fi := range docs {
		var doc domain.Document
		if err := exporter.ReadJSON(fi.Path, &doc); err != nil {
			return fmt.Errorf("failed to read %s: %w", fi.Name, err)
		}
		budgetID := mapping.ResolveBudgetID(fi.Name, state.BudgetMap, state.BudgetID)
		out := mapping.Transform(&doc, mappings, budgetID)
		dest := filepath.Join(state.Config.Paths.MappedDir, fi.Name)
		if err := exporter.WriteJSON(dest, out); err != nil {
			return fmt.Errorf("failed to write %s: %w", fi.Name, err)
		}
		mapped++
	}
	state.SetCount("mapped", mapped)
	return nil
}

// PayloadStep enriches each mapped document with user data and, when the
// beneficiary exists, replaces the file with the final request payload.
type PayloadStep struct{}

func (s *PayloadStep) ID() string   { return "payload" }
func (s *PayloadStep) Name() string { return "Enrich users and build payloads" }

func (s *PayloadStep) Validate(state *State) error {
	if state.Lookup == nil {
		return fmt.Errorf("no lookup source configured")
	}
	if state.Registry == nil {
		return fmt.Errorf("no endpoint registry configured")
	}
	if state.TemplateName == "" {
		return fmt.Errorf("no payload template configured")
	}
	return nil
}

func (s *PayloadStep) Execute(ctx context.Context, state *State) error {
	users, err := state.Lookup.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	userMap := enrich.BuildUserMap(users)
	slog.InfoContext(ctx, "user map built", slog.Int("users", len(userMap)))

	discovery := files.NewDiscovery("")
	docs, err := discovery.FindJSONFiles(state.Config.Paths.MappedDir)
	if err != nil {
		return fmt.Errorf("failed to list mapped documents: %w", err)
	}

	built, skipped := 0, 0
	for _, fi := range docs {
		var mb domain.MappedBudget
		if err := exporter.ReadJSON(fi.Path, &mb); err != nil {
			return fmt.Errorf("failed to read %s: %w", fi.Name, err)
		}
		enrich.Apply(&mb, userMap)

		if mb.Exist != nil && !*mb.Exist {
			if err := exporter.WriteJSON(fi.Path, mb); err != nil {
				return fmt.Errorf("failed to write %s: %w", fi.Name, err)
			}
			skipped++
			slog.WarnContext(ctx, "payload skipped, unknown beneficiary",
				slog.String("file", fi.Name),
				slog.String("document", mb.BeneficiaryDocument))
			continue
		}

		beneficiary, err := state.Lookup.Beneficiary(ctx, mb.ID)
		if err != nil {
			if werr := exporter.WriteJSON(fi.Path, mb); werr != nil {
				return fmt.Errorf("failed to write %s: %w", fi.Name, werr)
			}
			skipped++
			slog.WarnContext(ctx, "payload skipped, beneficiary lookup failed",
				slog.String("file", fi.Name),
				slog.String("error", err.Error()))
			continue
		}

		reference, err := state.Registry.TemplateReference(state.TemplateName)
		if err != nil {
			return fmt.Errorf("failed to load payload template: %w", err)
		}
		payload := payloads.Build(reference, &mb, beneficiary)
		if err := exporter.WriteJSON(fi.Path, payload); err != nil {
			return fmt.Errorf("failed to write %s: %w", fi.Name, err)
		}
		built++
	}
	state.SetCount("payloads", built)
	state.SetCount("payloads_skipped", skipped)
	return nil
}

// FinalizeStep promotes the mapped directory to the output directory and
// removes the intermediate extraction results.
type FinalizeStep struct{}

func (s *FinalizeStep) ID() string   { return "finalize" }
func (s *FinalizeStep) Name() string { return "Finalize output" }

func (s *FinalizeStep) Validate(state *State) error {
	if state.Config.Paths.OutputDir == state.Config.Paths.MappedDir {
		return fmt.Errorf("output and mapped directories must differ")
	}
	return nil
}

func (s *FinalizeStep) Execute(ctx context.Context, state *State) error {
	out := state.Config.Paths.OutputDir
	mapped := state.Config.Paths.MappedDir
	if _, err := os.Stat(mapped); err != nil {
		return fmt.Errorf("mapped directory missing: %w", err)
	}
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("failed to remove %s: %w", out, err)
	}
	if err := os.Rename(mapped, out); err != nil {
		return fmt.Errorf("failed to promote %s: %w", mapped, err)
	}
	slog.InfoContext(ctx, "output finalized",
		slog.String("dir", out),
		slog.Int("documents", state.Count("mapped")))
	return nil
}

// DefaultSteps returns the full pipeline in run order.
func DefaultSteps() []Step {
	return []Step{
		&FlattenStep{},
		&ExtractStep{},
		&MapStep{},
		&PayloadStep{},
		&FinalizeStep{},
	}
}

// ExtractSteps returns the extraction-only pipeline used by cmd/extract.
func ExtractSteps() []Step {
	return []Step{
		&FlattenStep{},
		&ExtractStep{},
	}
}
