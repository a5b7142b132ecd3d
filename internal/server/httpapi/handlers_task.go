package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func taskIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid task id", common.ErrorValidation)
	}
	return id, nil
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.tasks.FindAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksToListResponse(tasks))
}

func (s *Server) filterTasks(c *gin.Context) {
	var filter models.TaskFilter

	if v := c.Query("authorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: invalid authorId", common.ErrorValidation))
			return
		}
		filter.AuthorID = &id
	}
	if v := c.Query("assigneeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: invalid assigneeId", common.ErrorValidation))
			return
		}
		filter.AssigneeID = &id
	}
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: invalid pageSize", common.ErrorValidation))
			return
		}
		filter.PageSize = n
	}
	if v := c.Query("pageNumber"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: invalid pageNumber", common.ErrorValidation))
			return
		}
		filter.PageNumber = n
	}

	tasks, err := s.tasks.FilterBy(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksToListResponse(tasks))
}

func (s *Server) getTask(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.tasks.FindByID(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

func taskFromRequest(req *upsertTaskRequest) (*models.Task, error) {
	status, err := models.ParseTaskStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		AuthorID:    req.AuthorID,
		AssigneeID:  req.AssigneeID,
	}, nil
}

func (s *Server) createTask(c *gin.Context) {
	var req upsertTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskFromRequest(&req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	created, err := s.tasks.Create(c.Request.Context(), task)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(created))
}

func (s *Server) updateTask(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req upsertTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskFromRequest(&req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	task.ID = id

	updated, err := s.tasks.Update(c.Request.Context(), task)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(updated))
}

func (s *Server) deleteTask(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) addComment(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.AddComment(c.Request.Context(), id, req.Comment)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

func (s *Server) changeStatus(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

func (s *Server) createAttachment(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	key, url, err := s.attachments.CreateUploadURL(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachmentResponse{Key: key, URL: url})
}

func (s *Server) getAttachment(c *gin.Context) {
	id, err := taskIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	url, err := s.attachments.CreateDownloadURL(c.Request.Context(), id, key)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attachmentResponse{Key: key, URL: url})
}
