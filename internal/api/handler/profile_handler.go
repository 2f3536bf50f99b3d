package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/social-api/internal/core/ports"
)

// ProfileHandler serves /user-profile.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Create handles POST /user-profile/create/:id.
//
// @Summary      Create the profile of a user
// @Tags         user-profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Owning user ID"
// @Param        body  body      createProfileRequest  true  "Profile details"
// @Success      200   {object}  profileEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /user-profile/create/{id} [post]
func (h *ProfileHandler) Create(c echo.Context) error {
	var req createProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), c.Param("id"), toProfileInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileEnvelope{
		Message: "Profile created successfully",
		Success: true,
		Profile: toProfileResponse(p),
	})
}

// Update handles PUT /user-profile/update/:userId. Only supplied fields change.
//
// @Summary      Update a profile
// @Tags         user-profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string                true  "Profile public ID"
// @Param        body    body      updateProfileRequest  true  "Fields to change"
// @Success      200     {object}  profileEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /user-profile/update/{userId} [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("userId"), toProfilePatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileEnvelope{
		Message: "Profile updated successfully",
		Success: true,
		Profile: toProfileResponse(p),
	})
}

// Delete handles DELETE /user-profile/delete/:userId.
//
// @Summary      Delete a profile and its posts
// @Tags         user-profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Profile public ID"
// @Success      200     {object}  profileEnvelope
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /user-profile/delete/{userId} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	p, err := h.service.Delete(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileEnvelope{
		Message: "Profile deleted successfully",
		Success: true,
		Profile: toProfileResponse(p),
	})
}

// View handles GET /user-profile/view/:userId.
//
// @Summary      View a profile with its owner
// @Tags         user-profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Profile public ID"
// @Success      200     {object}  profileViewEnvelope
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /user-profile/view/{userId} [get]
func (h *ProfileHandler) View(c echo.Context) error {
	v, err := h.service.View(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileViewEnvelope{
		Message: "Profile found",
		Success: true,
		Profile: toProfileViewResponse(v),
	})
}
