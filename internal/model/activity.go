package model

import "time"

type ActivityAction string

const (
	ActionRegister       ActivityAction = "register"
	ActionLogin          ActivityAction = "login"
	ActionOCRProcess     ActivityAction = "ocr_process"
	ActionOCRTextProcess ActivityAction = "ocr_text_process"
	ActionDetectAssets   ActivityAction = "detect_assets"
	ActionImportAssets   ActivityAction = "import_assets"
	ActionRefreshPrices  ActivityAction = "refresh_prices"
)

type Activity struct {
	ID        int64
	UserID    int64
	Action    ActivityAction
	Details   map[string]any
	CreatedAt time.Time
}
