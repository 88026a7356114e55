package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/http/response"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (ch *CatalogHandler) partition(c *gin.Context) (catalog.Partition, bool) {
	var in services.PartitionInput
	if err := c.ShouldBindQuery(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return catalog.Partition{}, false
	}
	p, err := services.ParsePartition(in)
	if err != nil {
		response.RespondServiceError(c, err)
		return catalog.Partition{}, false
	}
	return p, true
}

// GET /api/catalog
func (ch *CatalogHandler) List(c *gin.Context) {
	p, ok := ch.partition(c)
	if !ok {
		return
	}
	var filter *catalog.YearlyFilter
	year, session, group := c.Query("year"), c.Query("session"), c.Query("paperGroup")
	if year != "" || session != "" || group != "" {
		filter = &catalog.YearlyFilter{Year: year, Session: session, PaperGroupPrefix: group}
	}
	entries := ch.catalogService.List(c.Request.Context(), p, filter)
	response.RespondOK(c, gin.H{"partition": p, "filter": filter, "entries": entries})
}

// GET /api/catalog/years
func (ch *CatalogHandler) Years(c *gin.Context) {
	p, ok := ch.partition(c)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{"years": ch.catalogService.Years(c.Request.Context(), p)})
}

// GET /api/catalog/options
func (ch *CatalogHandler) Options(c *gin.Context) {
	p, ok := ch.partition(c)
	if !ok {
		return
	}
	response.RespondOK(c, ch.catalogService.Options(c.Request.Context(), p))
}

// GET /api/catalog/subjects?type=
func (ch *CatalogHandler) Subjects(c *gin.Context) {
	q, ok := catalog.ParseQualificationType(c.Query("type"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errUnknownType)
		return
	}
	response.RespondOK(c, gin.H{"type": q, "subjects": ch.catalogService.Subjects(q)})
}

// GET /api/resources lists active admin-created records. Every parameter is
// optional; an empty type lists all types.
func (ch *CatalogHandler) ActiveResources(c *gin.Context) {
	var in services.PartitionInput
	if err := c.ShouldBindQuery(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	q := catalog.Query{Subject: strings.TrimSpace(in.Subject), DataKeyAlternative: strings.TrimSpace(in.DataKey)}
	if in.Type != "" {
		t, ok := catalog.ParseQualificationType(in.Type)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errUnknownType)
			return
		}
		q.Type = t
		if t == catalog.SAT {
			q.Subject = ""
		}
	}
	if in.Section != "" {
		sec, ok := catalog.ParseSection(in.Section)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errUnknownSection)
			return
		}
		q.Section = sec
	}
	recs, err := ch.catalogService.ActiveRecords(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resources": recs})
}
