package api

import (
	"encoding/json"

	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"

	"github.com/vinayytyagi/lineup/modules/auth"
)

// AdminLogin handles admin panel login with the shared admin password.
func (h *Handlers) AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Password == "" {
		return badRequest(c, "Password is required")
	}

	authReq := auth.AdminLoginRequest{Password: req.Password}
	var resp auth.AdminLoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"admin-login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	setSessionCookie(c, AdminCookieName, resp.Token, adminCookieMaxAge)
	return c.JSON(OKResponse{OK: true})
}

// AdminLogout clears the admin session cookie.
func (h *Handlers) AdminLogout(c *fiber.Ctx) error {
	clearSessionCookie(c, AdminCookieName)
	return c.JSON(OKResponse{OK: true})
}

// AdminListUsers lists registered accounts, newest first.
func (h *Handlers) AdminListUsers(c *fiber.Ctx) error {
	var req auth.ListUsersRequest
	var resp auth.ListUsersResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"list-users",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return internalError(c, "Failed to list users", err)
	}

	return c.JSON(fiber.Map{
		"users": resp.Users,
		"total": len(resp.Users),
	})
}

// AdminGetUser returns one account's profile.
func (h *Handlers) AdminGetUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return badRequest(c, "User ID is required")
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
	}
	return c.JSON(profileResponse(user))
}

// AdminListUserTasks returns a user's tasks in a date range, read-only.
func (h *Handlers) AdminListUserTasks(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return badRequest(c, "User ID is required")
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		return badRequest(c, "start and end query parameters are required")
	}

	tasks, err := h.taskAdapter.ListRange(c.UserContext(), userID, start, end)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(TaskListResponse{Tasks: tasks})
}

// AdminCountUserTasks returns a user's total task count.
func (h *Handlers) AdminCountUserTasks(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return badRequest(c, "User ID is required")
	}

	count, err := h.taskAdapter.Count(c.UserContext(), userID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(TaskCountResponse{Count: count})
}
