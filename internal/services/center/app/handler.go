package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	"github.com/laneworks/laneworks/internal/services/center/domain"
	"github.com/laneworks/laneworks/internal/services/center/service"
)

// GrantHeader carries the layout replacement grant token.
const GrantHeader = "X-Layout-Grant"

type handler struct {
	svc *service.Service
}

// NewHandler assembles the center HTTP routes over the given service.
// It is the test-oriented entrypoint; NewWithAddr wires it into a full
// server with storage and grant config from the environment.
func NewHandler(svc *service.Service) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", GrantHeader},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))
	r.Use(logMiddleware)
	r.Use(traceMiddleware)
	r.Use(localeMiddleware)

	r.Get("/healthz", handleHealthz)
	r.Route("/v1/centers", func(r chi.Router) {
		r.Post("/", h.handleCreateCenter)
		r.Get("/", h.handleListCenters)
		r.Route("/{centerID}", func(r chi.Router) {
			r.Get("/", h.handleGetCenter)
			r.Patch("/", h.handleRenameCenter)
			r.Delete("/", h.handleDeleteCenter)
			r.Put("/layout", h.handleConfigureLayout)
			r.Get("/layout", h.handleGetLayout)
			r.Get("/layout/pairs", h.handleListLanePairs)
		})
	})
	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) handleCreateCenter(w http.ResponseWriter, r *http.Request) {
	var payload createCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.CodeRequestInvalid, "decode create center request", err))
		return
	}

	center, err := h.svc.CreateCenter(r.Context(), domain.CreateCenterInput{
		Name:     payload.Name,
		Slug:     payload.Slug,
		Timezone: payload.Timezone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, centerPayload(center))
}

func (h *handler) handleListCenters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pageSize := 0
	if raw := strings.TrimSpace(query.Get("page_size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperrors.WithMetadata(apperrors.CodeListPageSizeInvalid, "page size must be an integer", map[string]string{
				"max_page_size": strconv.Itoa(service.MaxListCentersPageSize),
			}))
			return
		}
		pageSize = parsed
	}

	page, err := h.svc.ListCenters(r.Context(), service.ListCentersInput{
		PageSize:  pageSize,
		PageToken: strings.TrimSpace(query.Get("page_token")),
		Filter:    strings.TrimSpace(query.Get("filter")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := listCentersResponse{
		Centers:       make([]centerResponse, 0, len(page.Centers)),
		NextPageToken: page.NextPageToken,
	}
	for _, center := range page.Centers {
		resp.Centers = append(resp.Centers, centerPayload(center))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleGetCenter(w http.ResponseWriter, r *http.Request) {
	center, err := h.svc.GetCenter(r.Context(), chi.URLParam(r, "centerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, centerPayload(center))
}

func (h *handler) handleRenameCenter(w http.ResponseWriter, r *http.Request) {
	var payload renameCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.CodeRequestInvalid, "decode rename center request", err))
		return
	}

	center, err := h.svc.RenameCenter(r.Context(), chi.URLParam(r, "centerID"), payload.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, centerPayload(center))
}

func (h *handler) handleDeleteCenter(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCenter(r.Context(), chi.URLParam(r, "centerID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleConfigureLayout(w http.ResponseWriter, r *http.Request) {
	var payload configureLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.CodeRequestInvalid, "decode configure layout request", err))
		return
	}

	ranges := make([]service.RangeInput, 0, len(payload.Ranges))
	for _, rangeInput := range payload.Ranges {
		ranges = append(ranges, service.RangeInput{
			StartLane:   rangeInput.StartLane,
			EndLane:     rangeInput.EndLane,
			PinFallType: rangeInput.PinFallType,
		})
	}

	center, err := h.svc.ConfigureLayout(r.Context(), chi.URLParam(r, "centerID"), ranges, strings.TrimSpace(r.Header.Get(GrantHeader)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, centerPayload(center))
}

func (h *handler) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	config, err := h.svc.GetLayout(r.Context(), chi.URLParam(r, "centerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutPayload(config))
}

func (h *handler) handleListLanePairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.svc.ListLanePairs(r.Context(), chi.URLParam(r, "centerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pairsPayload(pairs))
}
