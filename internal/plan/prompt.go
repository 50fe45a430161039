package plan

import "strings"

// exampleLines are shown to the model as the exact reply format.
var exampleLines = []string{
	"1. 數學 - 代數：2025-01-15，9:00AM - 12:00PM",
	"2. 語言學 - 英文：2025-01-15，1:00PM - 3:00PM",
	"3. 科學 - 物理：2025-01-16，9:00AM - 12:00PM",
	"4. 休閒活動：2025-01-16，3:00PM - 4:00PM",
}

const formatInstruction = "請以以下格式返回計劃："

// Placeholder is the sample request shown in empty input fields.
const Placeholder = "例如：幫我規劃一個五天的學習計劃，涵蓋數學、語言學、科學和一些休閒活動，每天學習不超過6小時，並確保每天下午有1小時的自由時間。"

// Prompt appends the fixed format instruction to a user request.
func Prompt(request string) string {
	var b strings.Builder
	b.WriteString(request)
	b.WriteString("\n")
	b.WriteString(formatInstruction)
	for _, l := range exampleLines {
		b.WriteString("\n")
		b.WriteString(l)
	}
	return b.String()
}

// ExampleLines returns a copy of the example reply lines used in Prompt.
func ExampleLines() []string {
	out := make([]string, len(exampleLines))
	copy(out, exampleLines)
	return out
}
