package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/collector"
	"CagrSentinel/internal/model"
	"CagrSentinel/internal/recorder"
	"CagrSentinel/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BacktestResponse is returned by POST /api/backtest.
type BacktestResponse struct {
	RunID       string           `json:"run_id"`
	Source      string           `json:"source"`
	Params      backtest.Params  `json:"params"`
	Windows     int              `json:"windows"`
	Summary     model.SummaryRow `json:"summary"`
	Stats       model.RunStats   `json:"stats"`
	DownloadURL string           `json:"download_url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.Defaults)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.writeError(w, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, err)
			return
		}
		s.writeError(w, fmt.Errorf("%w: parse form: %v", model.ErrInvalidInput, err))
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: missing upload field \"file\"", model.ErrInvalidInput))
		return
	}
	defer file.Close()

	p, err := paramsFromForm(r, s.cfg.Defaults)
	if err != nil {
		s.writeError(w, err)
		return
	}

	points, err := collector.Read(hdr.Filename, file, s.cfg.Ingest, s.log)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.cfg.Engine.Run("http", points, p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := report.SaveWorkbook(s.resultPath(res.RunID), res); err != nil {
		s.writeError(w, fmt.Errorf("save result: %w", err))
		return
	}
	s.setLatest(res.RunID)

	if err := s.cfg.Recorder.RecordRun(&recorder.RunRecord{Result: res, Source: hdr.Filename, Origin: "http"}); err != nil {
		s.log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}

	s.writeJSON(w, http.StatusOK, BacktestResponse{
		RunID:       res.RunID,
		Source:      hdr.Filename,
		Params:      res.Params,
		Windows:     len(res.Classified),
		Summary:     res.Summary,
		Stats:       res.Stats,
		DownloadURL: "/download/" + res.RunID,
	})
}

func (s *Server) handleDownloadLatest(w http.ResponseWriter, r *http.Request) {
	runID := s.latestRun()
	if runID == "" {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no result available yet"})
		return
	}
	s.serveResult(w, r, runID)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if _, err := uuid.Parse(runID); err != nil {
		s.writeError(w, fmt.Errorf("%w: bad run id %q", model.ErrInvalidInput, runID))
		return
	}
	s.serveResult(w, r, runID)
}

func (s *Server) serveResult(w http.ResponseWriter, r *http.Request, runID string) {
	path := s.resultPath(runID)
	if _, err := os.Stat(path); err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "result not found"})
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="backtest_results.xlsx"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, fmt.Errorf("%w: bad limit %q", model.ErrInvalidInput, v))
			return
		}
		limit = n
	}
	runs, err := s.cfg.Recorder.RecentRuns(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) resultPath(runID string) string {
	return filepath.Join(s.cfg.OutputDir, runID+".xlsx")
}
