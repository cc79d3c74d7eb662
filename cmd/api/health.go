package main

import "net/http"

const apiVersion = "1.1.0"

// @Summary		Health check
// @Description	returns the availability of the quota read API
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {

	data := map[string]string{
		"status":  "available",
		"service": "mdcota-api",
		"version": apiVersion,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
