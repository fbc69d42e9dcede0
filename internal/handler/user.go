package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront-engine/internal/domain/user"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []user.User
		err   error
	)
	if r.URL.Query().Get("all") == "true" {
		users, err = h.users.ListAll(r.Context())
	} else {
		users, err = h.users.ListActive(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, u := range users {
				encodeUser(e, u)
			}
		})
	})
}

func (h *Handler) addUser(w http.ResponseWriter, r *http.Request) {
	var name string
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "name" {
				return d.Skip()
			}
			v, err := d.Str()
			name = v
			return err
		})
	})
	if err != nil || name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.Add(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeUser(e, *u)
	})
}

func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
