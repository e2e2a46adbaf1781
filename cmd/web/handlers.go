package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rusbers/iannabeauty/internal/cms"
	"github.com/rusbers/iannabeauty/internal/handlers"
	"github.com/rusbers/iannabeauty/internal/platform/httpx"
	"github.com/rusbers/iannabeauty/internal/platform/requestctx"
	"github.com/rusbers/iannabeauty/internal/seo"
)

const maxRecordBody = 1 << 20

// handlePage renders the CMS document published under the request path.
func (a *app) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	rec, err := a.cms.GetRecord(ctx, r.URL.Path)
	if errors.Is(err, cms.ErrNotFound) {
		a.views.render(w, r, http.StatusNotFound, handlers.NotFoundData(a.site, r.URL.Path))
		return
	}
	if err != nil {
		logger.Error("load content", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "content unavailable", http.StatusBadGateway)
		return
	}

	data, err := handlers.BuildPageData(a.site, &rec, r.URL.Path)
	if err != nil {
		logger.Error("build page", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	a.views.render(w, r, http.StatusOK, data)
}

// handleMetadataBySlug returns metadata JSON for the document at ?slug=.
func (a *app) handleMetadataBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.URL.Query().Get("slug")

	rec, err := a.cms.GetRecord(ctx, slug)
	if errors.Is(err, cms.ErrNotFound) {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "no content for slug "+slug, http.StatusNotFound))
		return
	}
	if err != nil {
		requestctx.Logger(ctx).Error("load content", zap.String("slug", slug), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("content_unavailable", "content source unavailable", http.StatusBadGateway))
		return
	}
	a.writeMetadata(w, r, &rec)
}

// handleMetadataFromRecord returns metadata JSON for a record posted by the caller. An empty body
// or a JSON null is an absent record; anything after the first JSON value is rejected.
func (a *app) handleMetadataFromRecord(w http.ResponseWriter, r *http.Request) {
	var rec *cms.Record
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRecordBody))
	err := dec.Decode(&rec)
	if err == nil {
		var extra json.RawMessage
		if trailing := dec.Decode(&extra); !errors.Is(trailing, io.EOF) {
			err = errors.New("unexpected data after record")
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_record", err.Error(), http.StatusBadRequest))
		return
	}
	a.writeMetadata(w, r, rec)
}

func (a *app) writeMetadata(w http.ResponseWriter, r *http.Request, rec *cms.Record) {
	ctx := r.Context()
	meta, err := seo.Build(a.site, rec)
	if err != nil {
		requestctx.Logger(ctx).Error("build metadata", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "metadata unavailable", http.StatusInternalServerError))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, meta)
}
