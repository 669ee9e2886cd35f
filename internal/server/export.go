package server

import (
	"bytes"
	"net/http"

	"acd-tierlist/internal/export"
	"acd-tierlist/internal/service"

	"github.com/rs/zerolog"
)

const ExportPath = "/export/leaderboard.xlsx"

// ExportHandler serves the current leaderboard as a spreadsheet download.
func (s *TierListServer) ExportHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		l := zerolog.Ctx(r.Context())
		if l.GetLevel() == zerolog.Disabled {
			l = &s.logger
		}

		players, err := s.svc.ListPlayers(r.Context(), service.Filter{Region: r.URL.Query().Get("region")})
		if err != nil {
			l.Error().Err(err).Msg("failed to list players for export")
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, players); err != nil {
			l.Error().Err(err).Msg("failed to build spreadsheet")
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
		w.Write(buf.Bytes())
	})
}
