package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/buildinfo"
	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/month"
	"github.com/fincast-dev/fincast/internal/plan"
	"github.com/fincast-dev/fincast/internal/scenario"
	"github.com/fincast-dev/fincast/internal/simulate"
	"github.com/fincast-dev/fincast/internal/store"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields []plan.ValidationError `json:"fields,omitempty"`
}

// scenariosResponse is the aggregated view returned by list and add.
type scenariosResponse struct {
	Scenarios   []string                          `json:"scenarios"`
	Freq        aggregate.Resolution              `json:"freq"`
	Data        []model.Record                    `json:"data"`
	Added       string                            `json:"added,omitempty"`
	Ambiguities []simulate.ConfigurationAmbiguity `json:"ambiguities,omitempty"`
}

// scenarioRequest is a plan payload plus the resolution of the response.
type scenarioRequest struct {
	plan.RawPlan
	Freq string `json:"freq"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

type option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (s *Server) schema(w http.ResponseWriter, _ *http.Request) {
	freqs := make([]option, 0, len(aggregate.Resolutions))
	for _, r := range aggregate.Resolutions {
		freqs = append(freqs, option{Label: r.Label(), Value: string(r)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"planDefaults":       plan.DefaultRaw(s.startYear),
		"accountCategories":  model.AccountCategories,
		"endActions":         model.EndActions,
		"incomeCategories":   model.IncomeCategories,
		"spendingCategories": model.SpendingCategories,
		"freqOptions":        freqs,
		"freq":               s.resolution,
	})
}

func (s *Server) months(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startYear, err := intParam(q.Get("startYear"), s.startYear)
	if err != nil || startYear < 1000 || startYear > 9999 {
		writeError(w, http.StatusBadRequest, "startYear must be a 4-digit year")
		return
	}
	years, err := intParam(q.Get("years"), 1)
	if err != nil || years < 1 || years > plan.MaxYears {
		writeError(w, http.StatusBadRequest, "years must be between 1 and "+strconv.Itoa(plan.MaxYears))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"months": month.Range(startYear, years)})
}

func intParam(v string, fallback int) (int, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func (s *Server) resolve(freq string) (aggregate.Resolution, error) {
	if strings.TrimSpace(freq) == "" {
		return s.resolution, nil
	}
	return aggregate.ParseResolution(freq)
}

func (s *Server) aggregated(r *http.Request, res aggregate.Resolution) (scenariosResponse, error) {
	names, err := s.svc.Names(r.Context())
	if err != nil {
		return scenariosResponse{}, err
	}
	records, err := s.svc.Records(r.Context(), res)
	if err != nil {
		return scenariosResponse{}, err
	}
	return scenariosResponse{Scenarios: names, Freq: res, Data: records}, nil
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	res, err := s.resolve(r.URL.Query().Get("freq"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, err := s.aggregated(r, res)
	if err != nil {
		s.log.WithError(err).Error("aggregating scenarios")
		writeError(w, http.StatusInternalServerError, "could not load scenarios")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) addScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	res, err := s.resolve(req.Freq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.svc.Run(r.Context(), scenario.Input{Raw: req.RawPlan, Source: "api"})
	if err != nil {
		var verrs plan.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid plan", Fields: verrs})
			return
		}
		s.log.WithError(err).Error("running scenario")
		writeError(w, http.StatusInternalServerError, "could not simulate scenario")
		return
	}

	payload, err := s.aggregated(r, res)
	if err != nil {
		s.log.WithError(err).Error("aggregating scenarios")
		writeError(w, http.StatusInternalServerError, "could not load scenarios")
		return
	}
	payload.Added = result.Name
	payload.Ambiguities = result.Ambiguities
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	snaps, err := s.svc.Get(r.Context(), name)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "months": snaps})
}

func (s *Server) deleteScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.svc.Delete(r.Context(), name); err != nil {
		s.storeError(w, err)
		return
	}
	names, err := s.svc.Names(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "scenario deleted", "scenarios": names})
}

func (s *Server) clearScenarios(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(r.Context()); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "all scenarios cleared", "scenarios": []string{}})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.WithError(err).Error("store operation")
	writeError(w, http.StatusInternalServerError, "store operation failed")
}
