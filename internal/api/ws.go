package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 4,
	WriteBufferSize: 1024 * 4,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgConfigure      = "configure"
	wsMsgPresent        = "present"
	wsMsgLayout         = "layout"
	wsMsgSelect         = "select"
	wsMsgReplaceCatalog = "replace_catalog"
	wsMsgSetMode        = "set_mode"
	wsMsgConfirm        = "confirm"
	wsMsgOpenLink       = "open_link"
)

// WebSocket message types to client.
const (
	wsMsgConfigured = "configured"
	wsMsgPresented  = "presented"
	wsMsgSelection  = "selection"
	wsMsgCatalog    = "catalog"
	wsMsgMode       = "mode"
	wsMsgCommitted  = "committed"
	wsMsgError      = "error"
	// wsMsgLayout and wsMsgOpenLink are echoed back with the same names.
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsConfigure is the payload for "configure" messages.
type wsConfigure struct {
	Options   *consent.Catalog       `json:"options,omitempty"`
	Mode      string                 `json:"mode,omitempty"`
	Preferred *model.ReportingOption `json:"preferred,omitempty"`
	Threshold int                    `json:"threshold,omitempty"`
	Inclusive *bool                  `json:"inclusive,omitempty"`
	PolicyURL string                 `json:"policy_url,omitempty"`
}

// wsLayoutRequest is the payload for "layout" messages.
type wsLayoutRequest struct {
	Height int    `json:"height"`
	Width  int    `json:"width,omitempty"`
	Device string `json:"device,omitempty"`
}

// wsSelect is the payload for "select" messages.
type wsSelect struct {
	Option model.ReportingOption `json:"option"`
}

// wsSetMode is the payload for "set_mode" messages.
type wsSetMode struct {
	Mode string `json:"mode"`
}

// wsStateResponse describes the session after configure/present.
type wsStateResponse struct {
	State     string                  `json:"state"`
	Options   []model.ReportingOption `json:"options"`
	Selection *model.ReportingOption  `json:"selection,omitempty"`
	Mode      string                  `json:"mode"`
	PolicyURL string                  `json:"policy_url"`
}

// wsSelectionResponse reports the current selection. Accepted is false
// when the select was ignored.
type wsSelectionResponse struct {
	Option   model.ReportingOption `json:"option"`
	Accepted bool                  `json:"accepted"`
}

// wsCatalogResponse is sent after the catalog changed mid-session.
type wsCatalogResponse struct {
	Options   []model.ReportingOption `json:"options"`
	Selection model.ReportingOption   `json:"selection"`
}

// wsCommittedResponse is sent once, on confirm.
type wsCommittedResponse struct {
	Option      model.ReportingOption `json:"option"`
	CommittedAt time.Time             `json:"committed_at"`
}

// wsLinkResponse asks the client to open a URL.
type wsLinkResponse struct {
	URL string `json:"url"`
}

// wsLayoutResponse carries one layout pass.
type wsLayoutResponse struct {
	Mode   string    `json:"mode"`
	Pinned bool      `json:"pinned"`
	Rows   []rowJSON `json:"rows"`
}

// consentSession holds the state for a WebSocket consent session.
type consentSession struct {
	server *Server
	conn   *websocket.Conn
	screen *consent.Screen
}

func (s *Server) newSession(conn *websocket.Conn) (*consentSession, error) {
	sess := &consentSession{server: s, conn: conn, screen: consent.NewScreen()}
	if err := s.cfg.ApplyTo(sess.screen); err != nil {
		return nil, err
	}
	sess.screen.SetCommitHandler(func(ev consent.ConfirmationEvent) {
		sendWSMessage(conn, wsMsgCommitted, wsCommittedResponse{Option: ev.Option, CommittedAt: ev.CommittedAt})
	})
	sess.screen.SetLinkOpener(func(url string) {
		sendWSMessage(conn, wsMsgOpenLink, wsLinkResponse{URL: url})
	})
	sess.screen.OnCatalogChanged(func(c consent.Catalog) {
		if sess.screen.State() != consent.StatePresenting {
			return
		}
		cur, _ := sess.screen.Current()
		sendWSMessage(conn, wsMsgCatalog, wsCatalogResponse{Options: c.EnabledOptions(), Selection: cur})
	})
	sess.screen.OnModeChanged(func(m model.PresentationMode) {
		sendWSMessage(conn, wsMsgMode, map[string]string{"mode": m.String()})
	})
	return sess, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	session, err := s.newSession(conn)
	if err != nil {
		sendWSError(conn, err.Error())
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgConfigure:
			session.handleConfigure(msg.Data)
		case wsMsgPresent:
			session.handlePresent()
		case wsMsgLayout:
			session.handleLayout(msg.Data)
		case wsMsgSelect:
			session.handleSelect(msg.Data)
		case wsMsgReplaceCatalog:
			session.handleReplaceCatalog(msg.Data)
		case wsMsgSetMode:
			session.handleSetMode(msg.Data)
		case wsMsgConfirm:
			session.handleConfirm()
		case wsMsgOpenLink:
			if !session.screen.OpenPrivacyPolicy() {
				sendWSError(conn, "link unavailable")
			}
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (cs *consentSession) state() wsStateResponse {
	resp := wsStateResponse{
		State:     cs.screen.State().String(),
		Options:   cs.screen.Catalog().EnabledOptions(),
		Mode:      cs.screen.Mode().String(),
		PolicyURL: cs.screen.PolicyURL(),
	}
	if cur, ok := cs.screen.Current(); ok {
		resp.Selection = &cur
	}
	return resp
}

func (cs *consentSession) handleConfigure(data json.RawMessage) {
	if cs.screen.State() != consent.StateConfiguring {
		sendWSError(cs.conn, "configure is only allowed before present")
		return
	}

	var req wsConfigure
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(cs.conn, "invalid configure data: "+err.Error())
		return
	}

	mode := cs.screen.Mode()
	if req.Mode != "" {
		m, err := model.ParsePresentationMode(req.Mode)
		if err != nil {
			sendWSError(cs.conn, err.Error())
			return
		}
		mode = m
	}
	if req.Preferred != nil && !req.Preferred.Valid() {
		sendWSError(cs.conn, "invalid preferred option")
		return
	}

	if req.Options != nil {
		if err := cs.screen.SetCatalog(*req.Options); err != nil {
			sendWSError(cs.conn, err.Error())
			return
		}
	}
	if err := cs.screen.SetMode(mode); err != nil {
		sendWSError(cs.conn, err.Error())
		return
	}
	if req.Preferred != nil {
		cs.screen.SetPreferred(*req.Preferred)
	}
	r := cs.screen.Resolver()
	if req.Threshold > 0 {
		r.Threshold = req.Threshold
	}
	if req.Inclusive != nil {
		r.Inclusive = *req.Inclusive
	}
	cs.screen.SetResolver(r)
	cs.screen.SetPolicyURL(req.PolicyURL)

	sendWSMessage(cs.conn, wsMsgConfigured, cs.state())
}

func (cs *consentSession) handlePresent() {
	if err := cs.screen.Present(); err != nil {
		sendWSError(cs.conn, err.Error())
		return
	}
	sendWSMessage(cs.conn, wsMsgPresented, cs.state())
}

func (cs *consentSession) handleLayout(data json.RawMessage) {
	var req wsLayoutRequest
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(cs.conn, "invalid layout data")
		return
	}
	device, err := cs.server.deviceFor(req.Device, req.Width)
	if err != nil {
		sendWSError(cs.conn, err.Error())
		return
	}
	l := cs.screen.Layout(consent.Viewport{Height: req.Height, Device: device})
	sendWSMessage(cs.conn, wsMsgLayout, wsLayoutResponse{
		Mode:   l.Mode.String(),
		Pinned: l.PinnedHeader(),
		Rows:   rowsJSON(l.Rows),
	})
}

func (cs *consentSession) handleSelect(data json.RawMessage) {
	var req wsSelect
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(cs.conn, "invalid select data")
		return
	}
	if cs.screen.State() == consent.StateConfiguring {
		sendWSError(cs.conn, consent.ErrNotPresenting.Error())
		return
	}
	// Stale or invalid taps are not errors for the host: reply with the
	// unchanged selection.
	accepted := cs.screen.Select(req.Option)
	cur, _ := cs.screen.Current()
	sendWSMessage(cs.conn, wsMsgSelection, wsSelectionResponse{Option: cur, Accepted: accepted})
}

func (cs *consentSession) handleReplaceCatalog(data json.RawMessage) {
	var c consent.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		sendWSError(cs.conn, "invalid catalog data")
		return
	}
	if err := cs.screen.ReplaceCatalog(c); err != nil {
		sendWSError(cs.conn, err.Error())
		return
	}
	if cs.screen.State() == consent.StateConfiguring {
		sendWSMessage(cs.conn, wsMsgConfigured, cs.state())
	}
}

func (cs *consentSession) handleSetMode(data json.RawMessage) {
	var req wsSetMode
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(cs.conn, "invalid set_mode data")
		return
	}
	m, err := model.ParsePresentationMode(req.Mode)
	if err != nil {
		sendWSError(cs.conn, err.Error())
		return
	}
	if m == cs.screen.Mode() {
		sendWSMessage(cs.conn, wsMsgMode, map[string]string{"mode": m.String()})
		return
	}
	if err := cs.screen.SetMode(m); err != nil {
		sendWSError(cs.conn, err.Error())
	}
}

func (cs *consentSession) handleConfirm() {
	if _, err := cs.screen.Confirm(); err != nil {
		sendWSError(cs.conn, err.Error())
	}
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
