package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// GroupsController serves the reader-side group lookups. Groups are
// addressed by their link, the natural key.
type GroupsController struct {
	groups GroupReader
}

func NewGroupsController(groups GroupReader) *GroupsController {
	return &GroupsController{groups: groups}
}

// GetGroup handles GET /api/groups?link=
func (gc *GroupsController) GetGroup(c *gin.Context) {
	group, ok := gc.loadGroup(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, group)
}

// GetBook handles GET /api/groups/book?link=
func (gc *GroupsController) GetBook(c *gin.Context) {
	group, ok := gc.loadGroup(c)
	if !ok {
		return
	}

	book, err := gc.groups.GetBook(group).Get(c.Request.Context())
	if err != nil {
		respondClassified(c, err, "get group book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// GetSiblings handles GET /api/groups/siblings?link=
// It returns every group of the book owning the group, in reading order.
func (gc *GroupsController) GetSiblings(c *gin.Context) {
	group, ok := gc.loadGroup(c)
	if !ok {
		return
	}

	list, err := gc.groups.GetChaptersByBook(group).Get(c.Request.Context())
	if err != nil {
		respondClassified(c, err, "get sibling groups")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"book_id": group.BookID, "groups": list, "count": len(list)})
}

// IsDownloaded handles GET /api/groups/downloaded?link=
func (gc *GroupsController) IsDownloaded(c *gin.Context) {
	group, ok := gc.loadGroup(c)
	if !ok {
		return
	}

	downloaded, err := gc.groups.IsDownloaded(c.Request.Context(), group)
	if err != nil {
		respondClassified(c, err, "check downloaded")
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": group.Link, "downloaded": downloaded})
}

type updateLastReadRequest struct {
	Link     string `json:"link" binding:"required"`
	LastRead *int   `json:"last_read" binding:"required"`
}

// UpdateLastRead handles PUT /api/groups/last-read
// A group that no longer exists yields 404 with code stale_group.
func (gc *GroupsController) UpdateLastRead(c *gin.Context) {
	var req updateLastReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "link and last_read are required")
		return
	}

	group := &entities.Group{Link: req.Link}
	if err := gc.groups.UpdateLastRead(c.Request.Context(), group, *req.LastRead); err != nil {
		respondClassified(c, err, "update last read")
		return
	}
	respondSuccess(c, "last read updated", gin.H{"link": req.Link, "last_read": *req.LastRead})
}

func (gc *GroupsController) loadGroup(c *gin.Context) (*entities.Group, bool) {
	link, ok := requireQuery(c, "link")
	if !ok {
		return nil, false
	}

	group, err := gc.groups.GetGroupByLink(link).Get(c.Request.Context())
	if err != nil {
		respondClassified(c, err, "get group")
		return nil, false
	}
	return group, true
}
