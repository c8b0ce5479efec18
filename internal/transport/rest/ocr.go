package rest

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/httpConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
)

const (
	imageField      = "image"
	maxImageBytes   = 10 << 20
	noTextExtracted = "no text extracted"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/tiff": {},
}

type imageUpload struct {
	data     []byte
	filename string
}

// ProcessImage recognizes an uploaded statement and extracts ISINs, quantities and prices.
func (ctrl *Controller) ProcessImage(c *fiber.Ctx) error {
	upload, ok, err := readImage(c)
	if !ok {
		return err
	}

	extraction, err := ctrl.detection.ExtractFromImage(c.UserContext(), requester(c).UserID, upload.data, upload.filename)
	if err != nil {
		return errorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, extractionMessage(extraction.Text), httpConverter.ConvertTextExtraction(extraction))
}

func (ctrl *Controller) ProcessText(c *fiber.Ctx) error {
	var reqData textRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return err
	}

	extraction := ctrl.detection.ExtractFromText(c.UserContext(), requester(c).UserID, reqData.Text)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertTextExtraction(extraction))
}

// DetectAssets accepts a multipart image or a JSON body with text.
func (ctrl *Controller) DetectAssets(c *fiber.Ctx) error {
	detection, ok, err := ctrl.detectFromBody(c)
	if !ok {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, extractionMessage(detection.Text), httpConverter.ConvertDetection(detection))
}

func (ctrl *Controller) History(c *fiber.Ctx) error {
	activity, err := ctrl.detection.History(c.UserContext(), requester(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", httpConverter.ConvertActivities(activity))
}

// detectFromBody runs the detection on either body shape. When ok is false the response is already written.
func (ctrl *Controller) detectFromBody(c *fiber.Ctx) (detection model.Detection, ok bool, err error) {
	ctx := c.UserContext()
	userID := requester(c).UserID

	if isMultipart(c) {
		upload, ok, err := readImage(c)
		if !ok {
			return model.Detection{}, false, err
		}

		detection, err = ctrl.detection.DetectFromImage(ctx, userID, upload.data, upload.filename)
		if err != nil {
			return model.Detection{}, false, errorResponse(c, err)
		}
		return detection, true, nil
	}

	var reqData textRequest
	if ok, err := bindJSON(c, &reqData); !ok {
		return model.Detection{}, false, err
	}

	return ctrl.detection.DetectFromText(ctx, userID, reqData.Text), true, nil
}

func readImage(c *fiber.Ctx) (upload imageUpload, ok bool, err error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return imageUpload{}, false, middleware.ValidationErrorResponse(c, map[string]string{imageField: "Field is required!"})
	}

	contentType := strings.ToLower(fh.Header.Get(fiber.HeaderContentType))
	if _, allowed := allowedImageTypes[contentType]; !allowed {
		return imageUpload{}, false, middleware.ValidationErrorResponse(c, map[string]string{imageField: "Only JPEG, PNG, GIF, BMP and TIFF images are allowed!"})
	}
	if fh.Size > maxImageBytes {
		return imageUpload{}, false, middleware.ValidationErrorResponse(c, map[string]string{imageField: "Image must not exceed 10MB!"})
	}

	f, err := fh.Open()
	if err != nil {
		return imageUpload{}, false, errorResponse(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return imageUpload{}, false, errorResponse(c, err)
	}

	return imageUpload{data: data, filename: fh.Filename}, true, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func extractionMessage(text string) string {
	if strings.TrimSpace(text) == "" {
		return noTextExtracted
	}
	return ""
}
