package httpapi

import "github.com/dmitrijs2005/taskkeeper/internal/server/models"

type registerRequest struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type userResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type authResponse struct {
	ID           int64    `json:"id"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Username     string   `json:"username"`
	Roles        []string `json:"roles"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type upsertTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	AuthorID    int64  `json:"authorId" binding:"required"`
	AssigneeID  int64  `json:"assigneeId" binding:"required"`
}

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type taskResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	AuthorID    int64    `json:"authorId"`
	AssigneeID  int64    `json:"assigneeId"`
	Comments    []string `json:"comments"`
	Attachments []string `json:"attachments"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
}

type attachmentResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func userToResponse(u *models.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    models.RolesToStrings(u.Roles),
	}
}

func taskToResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AuthorID:    t.AuthorID,
		AssigneeID:  t.AssigneeID,
		Comments:    t.Comments,
		Attachments: t.Attachments,
	}
}

func tasksToListResponse(tasks []*models.Task) taskListResponse {
	resp := taskListResponse{Tasks: make([]taskResponse, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(t))
	}
	return resp
}
