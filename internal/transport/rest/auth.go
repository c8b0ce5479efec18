package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/service/authService"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

func (ctrl *Controller) Register(c *fiber.Ctx) error {
	var reqData registerRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	token, user, err := ctrl.auth.Register(c.UserContext(), authService.RegisterInput{
		Email:     reqData.Email,
		Password:  reqData.Password,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully!", httpConverter.AuthResult{
		Token: token,
		User:  httpConverter.ConvertUser(user),
	})
}

func (ctrl *Controller) Login(c *fiber.Ctx) error {
	var reqData loginRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	token, user, err := ctrl.auth.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", httpConverter.AuthResult{
		Token: token,
		User:  httpConverter.ConvertUser(user),
	})
}

func (ctrl *Controller) Me(c *fiber.Ctx) error {
	user, err := ctrl.auth.Me(c.UserContext(), requester(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertUser(user))
}
