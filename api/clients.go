package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	crm "github.com/hcviolins/crm"
)

// parseListRequest maps query parameters onto a pipeline request. Filter
// categories arrive as repeated parameters named after the category, e.g.
// ?tags=Owner&tags=Dealer&last_name=Kim.
func parseListRequest(r *http.Request) (*crm.ListRequest, error) {
	q := r.URL.Query()

	req := &crm.ListRequest{
		Search:  q.Get("search"),
		Filters: crm.ClearAll(),
		OrderBy: crm.Order{Field: q.Get("order_by")},
	}

	switch strings.ToUpper(q.Get("order_dir")) {
	case "", string(crm.OrderDirectionAsc):
		req.OrderBy.Direction = crm.OrderDirectionAsc
	case string(crm.OrderDirectionDesc):
		req.OrderBy.Direction = crm.OrderDirectionDesc
	default:
		return nil, errors.Errorf("unknown order_dir %q", q.Get("order_dir"))
	}

	for _, category := range crm.Categories() {
		for _, value := range q[category] {
			req.Filters = req.Filters.Change(category, value)
		}
	}

	var err error
	if req.Page, err = parseIntParam(q.Get("page")); err != nil {
		return nil, errors.New("page must be an integer")
	}
	if req.PageSize, err = parseIntParam(q.Get("page_size")); err != nil {
		return nil, errors.New("page_size must be an integer")
	}
	return req, nil
}

func parseIntParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	if r.URL.Query().Get("options") == "false" {
		ctx = crm.WithSkip(ctx, crm.Skip{Options: true})
	}

	rsp, err := s.runner.List(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rsp)
}

func (s *Server) handleClientOptions(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.Clients(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := crm.Options(clients)
	// option lists come back in first-occurrence order; the widgets want
	// them alphabetical
	for _, values := range [][]string{
		opts.LastNames, opts.FirstNames, opts.ContactNumbers, opts.Emails, opts.Interests, opts.Tags,
	} {
		slices.Sort(values)
	}
	s.writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var client crm.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		s.writeBadRequest(w, "invalid client payload")
		return
	}
	client.ID = ""

	if err := s.store.CreateClient(r.Context(), &client); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &client)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.store.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var client crm.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		s.writeBadRequest(w, "invalid client payload")
		return
	}
	client.ID = mux.Vars(r)["id"]

	if err := s.store.UpdateClient(r.Context(), &client); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.GetClient(r.Context(), client.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClient(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
