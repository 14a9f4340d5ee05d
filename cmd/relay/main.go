package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"wasp/internal/domain/types"
)

type userRecord struct {
	mu        sync.Mutex
	bundle    types.PreKeyBundle
	hasBundle bool
	opkQueue  []types.OneTimePreKeyPublic
	envelopes []types.Envelope
	streams   map[*websocket.Conn]struct{}
}

type relay struct {
	mu    sync.Mutex
	users map[types.ContactID]*userRecord
}

func newRelay() *relay {
	return &relay{users: make(map[types.ContactID]*userRecord)}
}

func (r *relay) record(id types.ContactID) *userRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		u = &userRecord{streams: make(map[*websocket.Conn]struct{})}
		r.users[id] = u
	}
	return u
}

func userID(req *http.Request) types.ContactID {
	return types.ContactID(mux.Vars(req)["userID"])
}

// decodeStrict decodes body into out, rejecting unknown fields so a
// malformed or downgraded request is rejected outright instead of silently
// accepted with fields dropped.
func decodeStrict(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}

func (r *relay) putBundle(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	var bundle types.PreKeyBundle
	if err := decodeStrict(req.Body, &bundle); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bundle.UserID = id

	u := r.record(id)
	u.mu.Lock()
	u.bundle = bundle
	u.hasBundle = true
	if bundle.OneTimePreKey != nil {
		u.opkQueue = append(u.opkQueue, *bundle.OneTimePreKey)
	}
	u.mu.Unlock()

	log.Printf("registered bundle for %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (r *relay) getBundle(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	u := r.record(id)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasBundle {
		writeError(w, http.StatusNotFound, "no bundle registered for "+id.String())
		return
	}

	out := u.bundle
	out.OneTimePreKey = nil
	if len(u.opkQueue) > 0 {
		opk := u.opkQueue[0]
		u.opkQueue = u.opkQueue[1:]
		out.OneTimePreKey = &opk
	}
	writeJSON(w, http.StatusOK, out)
}

func (r *relay) postOPKs(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	var keys []types.OneTimePreKeyPublic
	if err := decodeStrict(req.Body, &keys); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u := r.record(id)
	u.mu.Lock()
	u.opkQueue = append(u.opkQueue, keys...)
	u.mu.Unlock()

	log.Printf("replenished %d one-time pre-keys for %s", len(keys), id)
	w.WriteHeader(http.StatusNoContent)
}

func (r *relay) postSPK(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	var spk types.SignedPreKeyPublic
	if err := decodeStrict(req.Body, &spk); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u := r.record(id)
	u.mu.Lock()
	u.bundle.SignedPreKey = spk
	u.hasBundle = true
	u.mu.Unlock()

	log.Printf("rotated signed pre-key for %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (r *relay) postEnvelope(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	var env types.Envelope
	if err := decodeStrict(req.Body, &env); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	env.MessageID = uuid.New().String()

	u := r.record(id)
	u.mu.Lock()
	u.envelopes = append(u.envelopes, env)
	conns := make([]*websocket.Conn, 0, len(u.streams))
	for c := range u.streams {
		conns = append(conns, c)
	}
	u.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteMessage(websocket.TextMessage, []byte("new-envelope"))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (r *relay) getEnvelopes(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	limit := 0
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	u := r.record(id)
	u.mu.Lock()
	defer u.mu.Unlock()

	envs := u.envelopes
	if limit > 0 && limit < len(envs) {
		envs = envs[:limit]
	}
	writeJSON(w, http.StatusOK, envs)
}

func (r *relay) ackEnvelopes(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	var body struct {
		Count int `json:"count"`
	}
	if err := decodeStrict(req.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u := r.record(id)
	u.mu.Lock()
	n := body.Count
	if n > len(u.envelopes) {
		n = len(u.envelopes)
	}
	u.envelopes = u.envelopes[n:]
	u.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (r *relay) getCanary(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	u := r.record(id)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasBundle {
		writeError(w, http.StatusNotFound, "no bundle registered for "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Canary string `json:"canary"`
	}{Canary: hex.EncodeToString(u.bundle.IdentitySigKey.Slice())[:16]})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (r *relay) stream(w http.ResponseWriter, req *http.Request) {
	id := userID(req)
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("stream upgrade for %s: %v", id, err)
		return
	}

	u := r.record(id)
	u.mu.Lock()
	u.streams[conn] = struct{}{}
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.streams, conn)
		u.mu.Unlock()
		_ = conn.Close()
	}()

	// Drain and discard anything the client sends; this channel is
	// server-push only. The loop exits once the client disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (r *relay) router() *mux.Router {
	rt := mux.NewRouter()
	rt.HandleFunc("/v1/bundles/{userID}", r.putBundle).Methods(http.MethodPut)
	rt.HandleFunc("/v1/bundles/{userID}", r.getBundle).Methods(http.MethodGet)
	rt.HandleFunc("/v1/bundles/{userID}/opks", r.postOPKs).Methods(http.MethodPost)
	rt.HandleFunc("/v1/bundles/{userID}/spk", r.postSPK).Methods(http.MethodPost)
	rt.HandleFunc("/v1/envelopes/{userID}", r.postEnvelope).Methods(http.MethodPost)
	rt.HandleFunc("/v1/envelopes/{userID}", r.getEnvelopes).Methods(http.MethodGet)
	rt.HandleFunc("/v1/envelopes/{userID}/ack", r.ackEnvelopes).Methods(http.MethodPost)
	rt.HandleFunc("/v1/canary/{userID}", r.getCanary).Methods(http.MethodGet)
	rt.HandleFunc("/v1/stream/{userID}", r.stream).Methods(http.MethodGet)
	return rt
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	r := newRelay()
	srv := &http.Server{
		Addr:         *addr,
		Handler:      r.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("relay listening on %s", *addr)
	log.Fatal(srv.ListenAndServe())
}
