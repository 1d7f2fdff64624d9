package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{team}/recent", handler.GetTeamRecent)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("POST /v1/matches", handler.RecordMatch)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/predictions", handler.CreatePrediction)
}
