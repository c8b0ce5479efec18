package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

func (ctrl *Controller) ListUsers(c *fiber.Ctx) error {
	page, err := ctrl.admin.ListUsers(c.UserContext(), c.Query("search"), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertUsersPage(page.Users, page.Total, page.Limit, page.Offset))
}

func (ctrl *Controller) GetUser(c *fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	details, err := ctrl.admin.GetUserDetails(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertUserDetails(details))
}

func (ctrl *Controller) UpdateUserRole(c *fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	var reqData roleRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	user, err := ctrl.admin.UpdateUserRole(c.UserContext(), requester(c), userID, model.Role(reqData.Role))
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully!", httpConverter.ConvertUser(user))
}

func (ctrl *Controller) DeleteUser(c *fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := ctrl.admin.DeleteUser(c.UserContext(), requester(c), userID); err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
