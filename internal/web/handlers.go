package web

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/limitdiff/internal/config"
	"github.com/JonMunkholm/limitdiff/internal/limits"
	"github.com/JonMunkholm/limitdiff/internal/report"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

// formMemory is how much of a multipart form is held in memory; the rest
// spills to temporary files.
const formMemory = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"limiter": s.service.Limiter().Status(),
	})
}

// optionsResponse describes the defaults a request starts from.
type optionsResponse struct {
	Options     limits.Options  `json:"options"`
	Sheet       string          `json:"sheet,omitempty"`
	Formats     []report.Format `json:"formats"`
	Buckets     []report.Bucket `json:"buckets"`
	MaxFileSize int64           `json:"maxFileSize"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Options:     s.cfg.Parse.Options(),
		Sheet:       s.cfg.Parse.Sheet,
		Formats:     report.Formats,
		Buckets:     report.Buckets,
		MaxFileSize: s.cfg.Compare.MaxFileSize,
	})
}

// handleParse parses the uploaded "file" and returns its RecordSet.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r, 1); err != nil {
		respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	pc, err := s.formParseConfig(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	src, closeFn, err := s.formSource(r, "file", pc.Sheet)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeFn()

	rs, err := s.service.ParseSource(withClient(r.Context(), r), src, pc.Options())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// handleCompare compares the uploaded "old" and "new" tables and renders the
// report in the requested format. A "bucket" field switches the response to
// the CSV export of that bucket.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r, 2); err != nil {
		respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format, err := report.ParseFormat(valueOr(r.FormValue("format"), string(report.FormatJSON)))
	if err != nil {
		respondError(w, r, err)
		return
	}
	var bucket report.Bucket
	if b := r.FormValue("bucket"); b != "" {
		if bucket, err = report.ParseBucket(b); err != nil {
			respondError(w, r, fmt.Errorf("%w: %v", limits.ErrInvalidOptions, err))
			return
		}
	}

	pc, err := s.formParseConfig(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	oldSrc, closeOld, err := s.formSource(r, "old", pc.Sheet)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeOld()
	newSrc, closeNew, err := s.formSource(r, "new", pc.Sheet)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeNew()

	res, err := s.service.Compare(withClient(r.Context(), r), oldSrc, newSrc, pc.Options())
	if err != nil {
		respondError(w, r, err)
		return
	}
	doc, err := report.New(res)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Render fully before writing so a failure still gets a JSON error.
	var buf bytes.Buffer
	contentType, filename := format.ContentType(), "comparison-"+res.ID+format.Ext()
	if bucket != "" {
		err = doc.WriteCSV(&buf, bucket)
		contentType, filename = "text/csv; charset=utf-8", "comparison-"+res.ID+"-"+string(bucket)+".csv"
	} else {
		showUnchanged, _ := strconv.ParseBool(r.FormValue("show_unchanged"))
		err = doc.Render(&buf, format, report.TextOptions{ShowUnchanged: showUnchanged})
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Comparison-ID", res.ID)
	if bucket != "" || format == report.FormatXLSX {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// parseForm limits the body to files uploads of the configured size and
// parses the multipart form.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, files int64) error {
	maxSize := s.cfg.Compare.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, files*maxSize+1<<20)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return fmt.Errorf("%w: %v", errNoFile, err)
		}
		return err
	}
	return nil
}

// formSource opens the upload in field as a row source.
func (s *Server) formSource(r *http.Request, field, sheet string) (source.Source, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", errNoFile, field)
	}
	if header.Size > s.cfg.Compare.MaxFileSize {
		file.Close()
		return nil, nil, fmt.Errorf("%s: %w (%d bytes)", field, errFileTooLarge, header.Size)
	}

	src, err := source.FromReader(uploadName(header, field), file, header.Size, sheet)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return src, func() { file.Close() }, nil
}

// uploadName is the base name of the uploaded file, or the field name when
// the client sent none.
func uploadName(h *multipart.FileHeader, field string) string {
	name := filepath.Base(strings.ReplaceAll(h.Filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return field + ".csv"
	}
	return name
}

// formParseConfig layers the option fields of the form over the configured
// parse settings. The fields use the profile keys.
func (s *Server) formParseConfig(r *http.Request) (config.ParseConfig, error) {
	pc := s.cfg.Parse
	var p config.Profile

	if v, ok := formValue(r, "parametric"); ok {
		p.Parametric = &v
	}
	if v, ok := formValue(r, "metrics"); ok {
		p.Metrics = config.SplitList(v)
	}
	if v, ok := formValue(r, "nulls"); ok {
		p.Nulls = splitNulls(v)
	}
	if v, ok := formValue(r, "key"); ok {
		p.Key = &v
	}
	if v, ok := formValue(r, "sheet"); ok {
		p.Sheet = &v
	}

	var errs []string
	for _, f := range []struct {
		name string
		dst  **bool
	}{
		{"begin_from_parametric", &p.BeginFromParametric},
		{"blank_is_null", &p.BlankIsNull},
	} {
		v, ok := formValue(r, f.name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a boolean", f.name, v))
			continue
		}
		*f.dst = &b
	}
	if len(errs) > 0 {
		return pc, fmt.Errorf("%w: %s", limits.ErrInvalidOptions, strings.Join(errs, "; "))
	}

	p.Apply(&pc)
	return pc, pc.Options().Validate()
}

// splitNulls splits a comma-separated null list keeping empty items, so
// "N/A,,-" makes blank cells null too.
func splitNulls(v string) []string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vs, ok := r.MultipartForm.Value[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
