package api

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/export"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// updateItemRequest accepts the "zipCode" spelling alongside "zip_code".
type updateItemRequest struct {
	model.ItemPatch
	ZipCodeAlt *string `json:"zipCode"`
}

// ListItems handles GET /api/items?type=&search=.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	items, err := h.svc.ListItems(r.Context(), q.Get("type"), q.Get("search"))
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, items, "")
	return nil
}

// Search handles GET /api/search?q=&type=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	items, err := h.svc.SearchItems(r.Context(), q.Get("q"), q.Get("type"))
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, items, "")
	return nil
}

// GetItem handles GET /api/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	it, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, it, "")
	return nil
}

// CreateItem handles POST /api/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) error {
	var req service.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	it, err := h.svc.CreateItem(r.Context(), req)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, it, "item created")
	return nil
}

// UpdateItem handles PUT and PATCH /api/items/{id}. Only the supplied
// fields change.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	p := req.ItemPatch
	if p.ZipCode == nil {
		p.ZipCode = req.ZipCodeAlt
	}

	it, err := h.svc.UpdateItem(r.Context(), id, p)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, it, "item updated")
	return nil
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	it, err := h.svc.DeleteItem(r.Context(), id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, it, "item deleted")
	return nil
}

// UploadImage handles PUT /api/items/{id}/image. The photo may come as the
// "image" field of a multipart form or as the raw request body.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	// Room for multipart framing on top of the photo itself.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	defer r.Body.Close()

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
			return &model.ValidationError{Field: "image", Reason: "file too large or invalid multipart form"}
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return &model.ValidationError{Field: "image", Reason: "image file required"}
		}
		defer file.Close()
		src = file
	}

	it, err := h.svc.SetItemImage(r.Context(), id, src)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, it, "image uploaded")
	return nil
}

// GetImage handles GET /api/items/{id}/image.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	data, mimeType, err := h.svc.ItemImage(r.Context(), id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
	return nil
}

// ExportItems handles GET /api/items/export.
func (h *Handler) ExportItems(w http.ResponseWriter, r *http.Request) error {
	items, err := h.svc.AllItems(r.Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Items(&buf, items); err != nil {
		return err
	}
	writeSpreadsheet(w, "items.xlsx", &buf)
	return nil
}

// writeSpreadsheet sends a finished workbook as a download.
func writeSpreadsheet(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}
