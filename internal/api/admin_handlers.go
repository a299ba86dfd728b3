package api

import (
	"fmt"
	"net/http"
	"path/filepath"
)

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	stats, err := s.bookings.GetStats(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("stats failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleExport renders the current booking set to a workbook and streams it
// back as an attachment.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	bookings, err := s.bookings.GetAllBookings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to export bookings")
		return
	}

	filePath, err := s.exporter.ExportBookings(bookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("export render failed")
		writeError(w, http.StatusInternalServerError, "Failed to export bookings")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	http.ServeFile(w, r, filePath)
}
