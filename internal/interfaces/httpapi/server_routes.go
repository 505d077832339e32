package httpapi

import "net/http"

// registerSystemRoutes wires health and documentation endpoints — none of
// them touch the world store. Only the health paths are excluded from
// tracing; the documentation paths are traced.
func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /livez", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Healthz)

	if !swaggerEnabled {
		return
	}
	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

// registerDomainRoutes wires the query surface (C8) and the single write
// path (C6's Advance, via POST /v1/advance). There is no per-user auth in
// this domain: every route here is open.
func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/world", handler.GetWorld)
	mux.HandleFunc("POST /v1/advance", handler.PostAdvance)

	mux.HandleFunc("GET /v1/leagues/{leagueID}/table", handler.GetLeagueTable)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/top-scorers", handler.GetLeagueTopScorers)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/best-defense", handler.GetLeagueBestDefense)

	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/head-to-head", handler.GetTeamHeadToHead)

	mux.HandleFunc("GET /v1/players/{playerID}/season-stats", handler.GetPlayerSeasonStats)

	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.GetMatchEvents)
}
