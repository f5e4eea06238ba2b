package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/usecase"
)

const workbookMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Generation after upload runs detached from the request; it gets its own
// deadline instead of the request's.
const backgroundGenerateTimeout = 3 * time.Minute

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correo y contraseña (mínimo 8 caracteres) son obligatorios"})
		return
	}

	user, err := s.register.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyRegistered) {
			c.JSON(http.StatusConflict, gin.H{"error": "el correo ya está registrado"})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correo y contraseña son obligatorios"})
		return
	}

	token, err := s.authenticate.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (s *Server) handleUploadInvoice(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere un archivo en el campo 'file'"})
		return
	}
	if !isXMLUpload(fileHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el archivo debe ser un XML de factura electrónica"})
		return
	}

	content, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	ownerID := currentUserID(c)
	invoice, err := s.uploadInvoice.Execute(c.Request.Context(), ownerID, fileHeader.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvoiceAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, model.ErrInvalidInvoicePayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.internalError(c, err)
		}
		return
	}

	// Classification starts immediately but the upload response does not
	// wait for the model.
	go func(ownerID, invoiceID string) {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundGenerateTimeout)
		defer cancel()
		if _, err := s.generate.Execute(ctx, ownerID, invoiceID); err != nil {
			s.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("background suggestion generation failed")
		}
	}(ownerID, invoice.ID)

	c.JSON(http.StatusCreated, toInvoiceResponse(invoice, usecase.StatusPending))
}

func (s *Server) handleListInvoices(c *gin.Context) {
	items, err := s.listInvoices.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.internalError(c, err)
		return
	}

	out := make([]invoiceResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toInvoiceResponse(item.Invoice, item.Status))
	}
	c.JSON(http.StatusOK, gin.H{"invoices": out, "total": len(out)})
}

func (s *Server) handleInvoiceDetail(c *gin.Context) {
	detail, err := s.invoiceDetail.Execute(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.notFoundOrInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, invoiceDetailResponse{
		invoiceResponse: toInvoiceResponse(detail.Invoice, detail.Status),
		Suggestions:     toSuggestionResponses(detail.Suggestions),
	})
}

func (s *Server) handleGenerateSuggestions(c *gin.Context) {
	suggestions, err := s.generate.Execute(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": toSuggestionResponses(suggestions)})
}

func (s *Server) handleSelectSuggestion(c *gin.Context) {
	var req selectSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere el código de cuenta a seleccionar"})
		return
	}

	updated, err := s.selectSugg.Execute(c.Request.Context(), currentUserID(c), c.Param("id"), req.LineNumber, req.AccountCode)
	if err != nil {
		s.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": toSuggestionResponses(updated)})
}

func (s *Server) handleExportInvoices(c *gin.Context) {
	content, err := s.export.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, model.ErrNoInvoicesToExport) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}

	filename := fmt.Sprintf("facturas_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, workbookMIME, content)
}

func (s *Server) handleUploadPUC(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere un archivo en el campo 'file'"})
		return
	}

	content, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	result, err := s.uploadPUC.Execute(c.Request.Context(), currentUserID(c), fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, model.ErrPUCUpload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, pucUploadResponse{TotalAccounts: result.TotalAccounts})
}

func (s *Server) handleListPUC(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	result, err := s.listPUC.Execute(c.Request.Context(), currentUserID(c), c.Query("search"), page, pageSize)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPUCPageResponse(result))
}

func (s *Server) handlePUCStats(c *gin.Context) {
	stats, err := s.pucStats.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, pucStatsResponse{TotalAccounts: stats.TotalAccounts, HasPUC: stats.HasPUC})
}

// Helpers

func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
}

func (s *Server) notFoundOrInternal(c *gin.Context, err error) {
	if errors.Is(err, model.ErrInvoiceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.internalError(c, err)
}

func isXMLUpload(fh *multipart.FileHeader) bool {
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".xml") {
		return true
	}
	contentType := fh.Header.Get("Content-Type")
	return strings.Contains(contentType, "xml")
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
