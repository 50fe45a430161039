package planner

// User-facing strings shared by the web and terminal forms.
const (
	MsgTitle             = "AI 行程助理"
	MsgInputLabel        = "請輸入你的行程需求："
	MsgSubmit            = "生成行程"
	MsgSuccess           = "生成的行程如下："
	MsgEmptyRequest      = "請輸入有效的需求！"
	MsgMissingCredential = "API 金鑰未設置，請檢查設定檔或環境變數。"
	MsgErrorPrefix       = "發生錯誤："
	MsgAnomaly           = "注意：以下活動的結束時間不晚於開始時間"
)
