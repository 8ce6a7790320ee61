package handlers

import (
	"net/http"
	"time"

	"github.com/afeibuhuifei/project-flow/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "project-flow api is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
