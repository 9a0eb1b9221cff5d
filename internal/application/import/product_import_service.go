package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	csvimport "github.com/shopadmin/backend/internal/infrastructure/import"
)

// ProductImportService drives the multi-step product import pipeline.
// Session state lives in the session store between steps; nothing touches
// the catalog until Commit.
type ProductImportService struct {
	store        cache.SessionStore
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	cfg          config.ImportConfig
	logger       *zap.Logger
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(
	store cache.SessionStore,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	cfg config.ImportConfig,
	logger *zap.Logger,
) *ProductImportService {
	return &ProductImportService{
		store:        store,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateSession parses an uploaded CSV file and opens a session around it
func (s *ProductImportService) CreateSession(ctx context.Context, fileName string, fileSize int64, r io.Reader) (*SessionResponse, error) {
	if fileSize > s.cfg.MaxFileSize {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportInvalidFile,
			fmt.Sprintf("File exceeds the maximum allowed size of %d bytes", s.cfg.MaxFileSize))
	}

	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, mapParseError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, mapParseError(err)
	}

	rows, err := parser.ReadAllRows(s.cfg.MaxRows)
	if err != nil {
		return nil, mapParseError(err)
	}
	if len(rows) == 0 {
		return nil, mapParseError(csvimport.ErrNoDataRows)
	}

	session := csvimport.NewImportSession(fileName, fileSize, parser.Headers(), rows)
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.logger.Info("Import session created",
		zap.String("session_id", session.ID.String()),
		zap.String("file_name", fileName),
		zap.Int("rows", len(rows)),
	)
	return ToSessionResponse(session), nil
}

// CreateFromSKUPaste opens a session from a pasted SKU list. The pasted
// text is split on newlines and commas; each SKU becomes a skeleton row
// that is already mapped, so the session skips the mapping step.
func (s *ProductImportService) CreateFromSKUPaste(ctx context.Context, req SKUPasteRequest) (*SessionResponse, error) {
	rows := parseSKUList(req.SKUs)
	if len(rows) == 0 {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportEmptyFile, "No SKUs found in the pasted text")
	}
	if len(rows) > s.cfg.MaxRows {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportInvalidFile,
			fmt.Sprintf("Pasted list exceeds the maximum of %d rows", s.cfg.MaxRows))
	}

	session := csvimport.NewSKUPasteSession(rows)
	if req.ConflictMode != "" {
		session.ConflictMode = csvimport.ConflictMode(req.ConflictMode)
	}
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.logger.Info("SKU paste session created",
		zap.String("session_id", session.ID.String()),
		zap.Int("rows", len(rows)),
	)
	return ToSessionResponse(session), nil
}

// GetSession retrieves a session by id
func (s *ProductImportService) GetSession(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// DeleteSession discards a session
func (s *ProductImportService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// SetMapping assigns file headers to product fields. Every mapped field
// must be a known product field, every mapped header must exist in the
// file, and the required fields must all be covered.
func (s *ProductImportService) SetMapping(ctx context.Context, id uuid.UUID, req SetMappingRequest) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mappable := make(map[string]bool)
	for _, field := range csvimport.MappableFields() {
		mappable[field] = true
	}
	headers := make(map[string]bool)
	for _, header := range session.Headers {
		headers[header] = true
	}

	mapping := make(csvimport.ColumnMapping, len(req.Mapping))
	for field, header := range req.Mapping {
		if !mappable[field] {
			return nil, shared.NewDomainError(csvimport.ErrCodeImportValidation,
				fmt.Sprintf("%q is not an importable product field", field))
		}
		if header == "" {
			continue
		}
		if !headers[header] {
			return nil, shared.NewDomainError(csvimport.ErrCodeImportMissingHeader,
				fmt.Sprintf("Column %q does not exist in the file", header))
		}
		mapping[field] = header
	}

	if missing := mapping.MissingRequired(); len(missing) > 0 {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportRequiredField,
			"Required fields not mapped: "+strings.Join(missing, ", "))
	}

	session.SetMapping(mapping)
	if req.ConflictMode != "" {
		session.ConflictMode = csvimport.ConflictMode(req.ConflictMode)
	}

	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// SetOptionSets attaches variant option sets to the session. At commit
// every row is expanded into the Cartesian product of the sets.
func (s *ProductImportService) SetOptionSets(ctx context.Context, id uuid.UUID, req SetOptionSetsRequest) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.OptionSets) > catalog.MaxOptionSets {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("At most %d option sets are allowed", catalog.MaxOptionSets))
	}
	for _, set := range req.OptionSets {
		if err := set.Validate(); err != nil {
			return nil, err
		}
	}

	session.OptionSets = req.OptionSets
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// SetFitmentSpec attaches a session-wide vehicle fitment spec. Rows with
// their own mapped fitments column override it.
func (s *ProductImportService) SetFitmentSpec(ctx context.Context, id uuid.UUID, req SetFitmentSpecRequest) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := ParseFitmentSpec(req.FitmentSpec); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	session.FitmentSpec = req.FitmentSpec
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// Validate runs the field rules over every row and stores the result on
// the session. A clean pass moves the session to the validated state.
func (s *ProductImportService) Validate(ctx context.Context, id uuid.UUID) (*csvimport.ValidationResult, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.CanValidate() {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportValidation,
			"Session has no column mapping yet")
	}

	validator := csvimport.NewFieldValidator(s.buildRules(session), s.referenceLookup(ctx), s.cfg.MaxRowErrors)

	result := &csvimport.ValidationResult{TotalRows: len(session.Rows)}
	for _, row := range session.Rows {
		if validator.ValidateRow(row) {
			result.ValidRows++
			if len(result.Preview) < s.cfg.PreviewRows {
				result.Preview = append(result.Preview, s.previewRow(session, row))
			}
		} else {
			result.ErrorRows++
		}
	}

	collected := validator.Errors()
	result.Errors = collected.Errors()
	result.TotalErrors = collected.TotalCount()
	result.IsTruncated = collected.IsTruncated()

	session.SetValidation(result)
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.logger.Info("Import session validated",
		zap.String("session_id", session.ID.String()),
		zap.Int("valid_rows", result.ValidRows),
		zap.Int("error_rows", result.ErrorRows),
	)
	return result, nil
}

// Commit writes the session's rows to the catalog. Rows expand into
// variants when option sets are attached; fitments are parsed per row.
// The conflict mode decides what an already existing SKU does: skip it,
// update it in place, or fail the whole commit before anything is
// written. Counters count products, not file rows, so an expanded row
// contributes once per variant.
func (s *ProductImportService) Commit(ctx context.Context, id uuid.UUID) (*CommitResult, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.CanCommit() {
		return nil, shared.NewDomainError(csvimport.ErrCodeImportValidation,
			"Session must pass validation before commit")
	}

	if session.ConflictMode == csvimport.ConflictFail {
		if err := s.checkConflicts(ctx, session); err != nil {
			session.Finish(true)
			if saveErr := s.store.Save(ctx, session, s.cfg.SessionTTL); saveErr != nil {
				s.logger.Warn("Failed to persist failed import session", zap.Error(saveErr))
			}
			return nil, err
		}
	}

	result := &CommitResult{TotalRows: len(session.Rows)}
	for _, row := range session.Rows {
		if err := s.commitRow(ctx, session, row, result); err != nil {
			result.FailedRows++
			result.Errors = append(result.Errors, csvimport.RowError{
				Row:     row.LineNumber,
				Code:    csvimport.ErrCodeImportValidation,
				Message: err.Error(),
			})
		}
	}

	session.Finish(result.FailedRows == len(session.Rows) && len(session.Rows) > 0)
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.logger.Info("Import session committed",
		zap.String("session_id", session.ID.String()),
		zap.Int("created", result.CreatedRows),
		zap.Int("updated", result.UpdatedRows),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("failed", result.FailedRows),
	)
	return result, nil
}

// mapParseError turns parser sentinels into coded domain errors so the
// interfaces layer can map them to proper HTTP statuses
func mapParseError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile):
		return shared.NewDomainError(csvimport.ErrCodeImportEmptyFile, err.Error())
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		return shared.NewDomainError(csvimport.ErrCodeImportInvalidEncoding, err.Error())
	case errors.Is(err, csvimport.ErrMissingHeader):
		return shared.NewDomainError(csvimport.ErrCodeImportMissingHeader, err.Error())
	case errors.Is(err, csvimport.ErrNoDataRows):
		return shared.NewDomainError(csvimport.ErrCodeImportEmptyFile, err.Error())
	case errors.Is(err, csvimport.ErrTooManyRows), errors.Is(err, csvimport.ErrFileTooLarge):
		return shared.NewDomainError(csvimport.ErrCodeImportInvalidFile, err.Error())
	default:
		return shared.NewDomainError(csvimport.ErrCodeImportInvalidFile, err.Error())
	}
}

// productUnit is one product to be written: either a row as-is or one of
// its expanded variants.
type productUnit struct {
	SKU  string
	Name string
}

func (s *ProductImportService) expandRow(session *csvimport.ImportSession, row *csvimport.Row) ([]productUnit, error) {
	baseSKU := strings.ToUpper(strings.TrimSpace(session.MappedValue(row, csvimport.FieldSKU)))
	name := strings.TrimSpace(session.MappedValue(row, csvimport.FieldName))

	if len(session.OptionSets) == 0 {
		return []productUnit{{SKU: baseSKU, Name: name}}, nil
	}

	defs, err := catalog.GenerateVariants(baseSKU, session.OptionSets)
	if err != nil {
		return nil, err
	}

	units := make([]productUnit, 0, len(defs))
	for _, def := range defs {
		values := make([]string, 0, len(session.OptionSets))
		for _, set := range session.OptionSets {
			values = append(values, def.Options[set.Name])
		}
		units = append(units, productUnit{
			SKU:  def.SKU,
			Name: fmt.Sprintf("%s (%s)", name, strings.Join(values, ", ")),
		})
	}
	return units, nil
}

// checkConflicts scans every SKU the commit would write and errors on the
// first one that already exists. A row that fails to expand aborts the
// scan too, otherwise it would fail at commit after sibling rows were
// already written and fail mode would no longer mean writing nothing.
func (s *ProductImportService) checkConflicts(ctx context.Context, session *csvimport.ImportSession) error {
	for _, row := range session.Rows {
		units, err := s.expandRow(session, row)
		if err != nil {
			return shared.NewDomainError(csvimport.ErrCodeImportValidation,
				fmt.Sprintf("row %d: %s", row.LineNumber, err.Error()))
		}
		for _, unit := range units {
			exists, err := s.productRepo.ExistsBySKU(ctx, unit.SKU)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError(csvimport.ErrCodeImportConflict,
					fmt.Sprintf("SKU %q already exists (row %d)", unit.SKU, row.LineNumber))
			}
		}
	}
	return nil
}

func (s *ProductImportService) commitRow(ctx context.Context, session *csvimport.ImportSession, row *csvimport.Row, result *CommitResult) error {
	units, err := s.expandRow(session, row)
	if err != nil {
		return err
	}

	categoryID, err := s.resolveCategory(ctx, session.MappedValue(row, csvimport.FieldCategorySlug))
	if err != nil {
		return err
	}

	fitmentSpec := session.MappedValue(row, csvimport.FieldFitments)
	if fitmentSpec == "" {
		fitmentSpec = session.FitmentSpec
	}
	fitments, err := ParseFitmentSpec(fitmentSpec)
	if err != nil {
		return err
	}

	for _, unit := range units {
		existing, err := s.productRepo.FindBySKU(ctx, unit.SKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if existing != nil {
			switch session.ConflictMode {
			case csvimport.ConflictSkip:
				result.SkippedRows++
				continue
			case csvimport.ConflictUpdate:
				if err := s.applyRow(session, row, existing, unit.Name); err != nil {
					return err
				}
				if err := s.productRepo.Save(ctx, existing); err != nil {
					return err
				}
				if err := s.attachAssociations(ctx, existing.ID, categoryID, fitments); err != nil {
					return err
				}
				result.UpdatedRows++
				continue
			default:
				return shared.NewDomainError(csvimport.ErrCodeImportConflict,
					fmt.Sprintf("SKU %q already exists", unit.SKU))
			}
		}

		product, err := catalog.NewProduct(unit.SKU, unit.Name)
		if err != nil {
			return err
		}
		if err := s.applyRow(session, row, product, unit.Name); err != nil {
			return err
		}
		if categoryID != nil {
			product.SetPrimaryCategory(categoryID)
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
		if err := s.attachAssociations(ctx, product.ID, categoryID, fitments); err != nil {
			return err
		}
		result.CreatedRows++
	}
	return nil
}

// applyRow copies the row's mapped scalar fields onto a product
func (s *ProductImportService) applyRow(session *csvimport.ImportSession, row *csvimport.Row, product *catalog.Product, name string) error {
	description := session.MappedValue(row, csvimport.FieldDescription)
	if name == "" {
		name = product.Name
	}
	if err := product.Update(name, description); err != nil {
		return err
	}

	if raw := session.MappedValue(row, csvimport.FieldPrice); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid price %q", raw)
		}
		compareAt := product.CompareAtPrice
		if rawCompare := session.MappedValue(row, csvimport.FieldCompareAtPrice); rawCompare != "" {
			compareAt, err = decimal.NewFromString(rawCompare)
			if err != nil {
				return fmt.Errorf("invalid compare_at_price %q", rawCompare)
			}
		}
		if err := product.SetPrices(price, compareAt); err != nil {
			return err
		}
	}

	if raw := session.MappedValue(row, csvimport.FieldSortOrder); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid sort_order %q", raw)
		}
		product.SetSortOrder(order)
	}

	switch strings.ToLower(session.MappedValue(row, csvimport.FieldStatus)) {
	case "":
		// keep current state
	case "active":
		if !product.IsActive() {
			if err := product.Activate(); err != nil {
				return err
			}
		}
	case "inactive":
		if product.IsActive() {
			if err := product.Deactivate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid status %q", session.MappedValue(row, csvimport.FieldStatus))
	}
	return nil
}

func (s *ProductImportService) attachAssociations(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID, fitments []FitmentInput) error {
	if categoryID != nil {
		if err := s.productRepo.ReplaceCategories(ctx, productID, []uuid.UUID{*categoryID}); err != nil {
			return err
		}
	}
	if len(fitments) > 0 {
		rows := make([]catalog.VehicleFitment, 0, len(fitments))
		for _, f := range fitments {
			fitment, err := catalog.NewVehicleFitment(productID, f.Make, f.Model, f.YearFrom, f.YearTo)
			if err != nil {
				return err
			}
			rows = append(rows, *fitment)
		}
		if err := s.productRepo.ReplaceFitments(ctx, productID, rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProductImportService) resolveCategory(ctx context.Context, slug string) (*uuid.UUID, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(csvimport.ErrCodeImportReferenceNotFound,
				fmt.Sprintf("Category %q does not exist", slug))
		}
		return nil, err
	}
	return &category.ID, nil
}

// buildRules derives the validation rules from the session's mapping.
// Rules address file columns, so errors point at the file the user sees.
func (s *ProductImportService) buildRules(session *csvimport.ImportSession) []csvimport.FieldRule {
	var rules []csvimport.FieldRule

	add := func(field string, build func(header string) csvimport.FieldRule) {
		if header := session.Mapping[field]; header != "" {
			rules = append(rules, build(header))
		}
	}

	add(csvimport.FieldSKU, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Required().MaxLength(64).
			Pattern(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`, "letters, digits, dots, hyphens and slashes").
			Unique().Build()
	})
	add(csvimport.FieldName, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Required().MaxLength(200).Build()
	})
	add(csvimport.FieldPrice, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Decimal().MinValue(decimal.Zero).Build()
	})
	add(csvimport.FieldCompareAtPrice, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Decimal().MinValue(decimal.Zero).Build()
	})
	add(csvimport.FieldCategorySlug, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Reference("category").Build()
	})
	add(csvimport.FieldSortOrder, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Int().Build()
	})
	add(csvimport.FieldStatus, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Custom(func(value string) error {
			switch strings.ToLower(value) {
			case "active", "inactive":
				return nil
			}
			return fmt.Errorf("status must be active or inactive")
		}).Build()
	})
	add(csvimport.FieldFitments, func(h string) csvimport.FieldRule {
		return csvimport.Field(h).Custom(func(value string) error {
			_, err := ParseFitmentSpec(value)
			return err
		}).Build()
	})

	return rules
}

func (s *ProductImportService) referenceLookup(ctx context.Context) csvimport.ReferenceLookup {
	return func(refType, value string) (bool, error) {
		switch refType {
		case "category":
			return s.categoryRepo.ExistsBySlug(ctx, strings.TrimSpace(value))
		default:
			return false, fmt.Errorf("unknown reference type %q", refType)
		}
	}
}

// previewRow maps a row through the column mapping into field names
func (s *ProductImportService) previewRow(session *csvimport.ImportSession, row *csvimport.Row) map[string]string {
	preview := make(map[string]string, len(session.Mapping))
	for field := range session.Mapping {
		preview[field] = session.MappedValue(row, field)
	}
	return preview
}

// parseSKUList splits pasted text on newlines and commas into skeleton
// rows keyed by the sku field
func parseSKUList(text string) []*csvimport.Row {
	var rows []*csvimport.Row
	line := 0
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	}) {
		sku := strings.TrimSpace(chunk)
		if sku == "" {
			continue
		}
		line++
		rows = append(rows, &csvimport.Row{
			LineNumber: line,
			Data:       map[string]string{csvimport.FieldSKU: sku},
		})
	}
	return rows
}
