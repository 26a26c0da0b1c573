package api

import (
	"fmt"
	"net/http"

	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/model"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Plan ---

type planRequest struct {
	Options   *consent.Catalog `json:"options,omitempty"`
	Mode      string           `json:"mode,omitempty"`
	Height    int              `json:"height"`
	Width     int              `json:"width,omitempty"`
	Device    string           `json:"device,omitempty"`
	Threshold int              `json:"threshold,omitempty"`
	Inclusive *bool            `json:"inclusive,omitempty"`
}

type planResponse struct {
	RequestedMode string    `json:"requested_mode"`
	Mode          string    `json:"mode"`
	Device        string    `json:"device"`
	Rows          []rowJSON `json:"rows"`
}

type rowJSON struct {
	Kind   string `json:"kind"`
	Option string `json:"option,omitempty"`
}

func rowsJSON(rows []model.Row) []rowJSON {
	out := make([]rowJSON, 0, len(rows))
	for _, r := range rows {
		rj := rowJSON{Kind: r.Kind.String()}
		if r.Kind == model.RowOption {
			rj.Option = r.Option.String()
		}
		out = append(out, rj)
	}
	return out
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	catalog := s.cfg.Options
	if req.Options != nil {
		catalog = *req.Options
	}

	mode := s.cfg.Presentation.Mode
	if req.Mode != "" {
		m, err := model.ParsePresentationMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	resolver := s.cfg.Resolver()
	if req.Threshold > 0 {
		resolver.Threshold = req.Threshold
	}
	if req.Inclusive != nil {
		resolver.Inclusive = *req.Inclusive
	}

	device, err := s.deviceFor(req.Device, req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolved := resolver.Resolve(mode, req.Height, device)
	writeJSON(w, http.StatusOK, planResponse{
		RequestedMode: mode.String(),
		Mode:          resolved.String(),
		Device:        device.String(),
		Rows:          rowsJSON(consent.BuildRowPlan(catalog, resolved)),
	})
}

// deviceFor picks the device class from an explicit name, then from the
// width, then defaults to phone.
func (s *Server) deviceFor(name string, width int) (model.DeviceClass, error) {
	switch name {
	case "phone":
		return model.DevicePhone, nil
	case "large":
		return model.DeviceLarge, nil
	case "":
		if width > 0 {
			return s.cfg.DeviceClass(width), nil
		}
		return model.DevicePhone, nil
	}
	return 0, fmt.Errorf("unknown device class %q", name)
}
