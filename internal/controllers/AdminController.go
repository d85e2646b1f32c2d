package controllers

import (
	"net/http"
	"panelkeeper/internal/models"
	"panelkeeper/internal/providers"
)

// AdminController exposes the maintenance operations. It shares the mutation
// handling of PanelController.
type AdminController struct {
	*PanelController
}

type resetResponse struct {
	Archived *models.Archive `json:"archived"`
}

type clearResponse struct {
	Cleared int `json:"cleared"`
}

func NewAdminController(panels *PanelController) *AdminController {
	return &AdminController{PanelController: panels}
}

func (ac *AdminController) ForceReset(w http.ResponseWriter, r *http.Request) {
	archive, err := ac.service.ForceReset()
	ac.logger.Warnf(providers.TypePost, "Forced reset requested by %s", r.RemoteAddr)
	ac.respondMutation(w, r, http.StatusOK, resetResponse{Archived: archive}, err)
}

func (ac *AdminController) ClearPanels(w http.ResponseWriter, r *http.Request) {
	n, err := ac.service.ClearPanels()
	ac.respondMutation(w, r, http.StatusOK, clearResponse{Cleared: n}, err)
}

func (ac *AdminController) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="panelkeeper-snapshot.json"`)
	writeJSON(w, http.StatusOK, ac.service.GetSnapshot())
}
