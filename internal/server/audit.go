package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mkoecher/audit-cockpit/constants"
	"github.com/mkoecher/audit-cockpit/internal/common"
)

// handleAudit runs the deterministic parse-and-match path over the uploaded
// documents and replaces the current result set.
func (s *Server) handleAudit(c *gin.Context) {
	invoice, delivery, _, err := s.readUpload(c, false)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.svc.Run(c.Request.Context(), invoice, delivery)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.setResult(res)
	c.JSON(http.StatusOK, res)
}

// handleLLMAudit runs the batched LLM cross-check. It does not touch the
// deterministic result set.
func (s *Server) handleLLMAudit(c *gin.Context) {
	invoice, delivery, priceLists, err := s.readUpload(c, true)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.svc.CrossCheck(
		c.Request.Context(),
		invoice,
		delivery,
		priceLists,
		c.PostForm("instructions"),
		c.PostForm("model"),
	)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleResult(c *gin.Context) {
	res := s.result()
	if res == nil {
		s.fail(c, common.ErrNoResult)
		return
	}
	c.JSON(http.StatusOK, res)
}

// readUpload pulls the documents out of the multipart form. The invoice part
// is a precondition: without it the action is simply not available.
func (s *Server) readUpload(c *gin.Context, withPriceLists bool) (invoice []byte, delivery, priceLists [][]byte, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, common.NewAppError("BAD_UPLOAD", "reading multipart form", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}

	invoices := form.File["invoice"]
	if len(invoices) == 0 {
		return nil, nil, nil, common.NewAppError("MISSING_INVOICE", "invoice part is required", common.ErrInvalidInput)
	}
	invoice, err = readPart(invoices[0], constants.AllowedInvoiceExtensions)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, fh := range form.File["delivery"] {
		data, err := readPart(fh, constants.AllowedInvoiceExtensions)
		if err != nil {
			return nil, nil, nil, err
		}
		delivery = append(delivery, data)
	}

	if withPriceLists {
		for _, fh := range form.File["pricelist"] {
			data, err := readPart(fh, constants.AllowedPriceListExtensions)
			if err != nil {
				return nil, nil, nil, err
			}
			priceLists = append(priceLists, data)
		}
	}
	return invoice, delivery, priceLists, nil
}

func readPart(fh *multipart.FileHeader, allowed map[string]struct{}) ([]byte, error) {
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := allowed[ext]; !ok {
		return nil, common.NewAppError("BAD_EXTENSION", fmt.Sprintf("file %q has unsupported extension", fh.Filename), common.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, common.NewAppError("BAD_UPLOAD", fmt.Sprintf("opening %q", fh.Filename), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, common.NewAppError("BAD_UPLOAD", fmt.Sprintf("reading %q", fh.Filename), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	return data, nil
}
