package console

// Raw ANSI Color Codes
const (
	// Reset
	CodeReset = "\033[0m"

	// Modifiers
	CodeBold          = "\033[1m"
	CodeDim           = "\033[2m"
	CodeItalic        = "\033[3m"
	CodeUnderline     = "\033[4m"
	CodeBlink         = "\033[5m"
	CodeReverse       = "\033[7m"
	CodeStrikethrough = "\033[9m"

	// Modifier resets
	CodeBoldOff          = "\033[22m"
	CodeDimOff           = "\033[22m"
	CodeItalicOff        = "\033[23m"
	CodeUnderlineOff     = "\033[24m"
	CodeBlinkOff         = "\033[25m"
	CodeReverseOff       = "\033[27m"
	CodeStrikethroughOff = "\033[29m"

	// Foreground
	CodeBlack   = "\033[30m"
	CodeRed     = "\033[31m"
	CodeGreen   = "\033[32m"
	CodeYellow  = "\033[33m"
	CodeBlue    = "\033[34m"
	CodeMagenta = "\033[35m"
	CodeCyan    = "\033[36m"
	CodeWhite   = "\033[37m"

	// Foreground (Bright)
	CodeBrightBlack   = "\033[90m"
	CodeBrightRed     = "\033[91m"
	CodeBrightGreen   = "\033[92m"
	CodeBrightYellow  = "\033[93m"
	CodeBrightBlue    = "\033[94m"
	CodeBrightMagenta = "\033[95m"
	CodeBrightCyan    = "\033[96m"
	CodeBrightWhite   = "\033[97m"

	// Background
	CodeBlackBg   = "\033[40m"
	CodeRedBg     = "\033[41m"
	CodeGreenBg   = "\033[42m"
	CodeYellowBg  = "\033[43m"
	CodeBlueBg    = "\033[44m"
	CodeMagentaBg = "\033[45m"
	CodeCyanBg    = "\033[46m"
	CodeWhiteBg   = "\033[47m"

	// Background (Bright)
	CodeBrightBlackBg   = "\033[100m"
	CodeBrightRedBg     = "\033[101m"
	CodeBrightGreenBg   = "\033[102m"
	CodeBrightYellowBg  = "\033[103m"
	CodeBrightBlueBg    = "\033[104m"
	CodeBrightMagentaBg = "\033[105m"
	CodeBrightCyanBg    = "\033[106m"
	CodeBrightWhiteBg   = "\033[107m"
)

// AppColors defines the struct for program-wide colors/styles
type AppColors struct {
	// Base Codes
	Reset     string
	Bold      string
	Dim       string
	Underline string
	Blink     string
	Reverse   string

	// Base Colors (Foreground)
	Black   string
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Magenta string
	Cyan    string
	White   string

	// Base Colors (Background)
	BlackBg   string
	RedBg     string
	GreenBg   string
	YellowBg  string
	BlueBg    string
	MagentaBg string
	CyanBg    string
	WhiteBg   string

	// Semantic Colors
	Timestamp              string
	Trace                  string
	Debug                  string
	Info                   string
	Notice                 string
	Warn                   string
	Error                  string
	Fatal                  string
	FatalFooter            string
	TraceHeader            string
	TraceFooter            string
	TraceFrameNumber       string
	TraceFrameLines        string
	TraceSourceFile        string
	TraceLineNumber        string
	TraceFunction          string
	ApplicationName        string
	Stack                  string
	Endpoint               string
	File                   string
	Folder                 string
	Volume                 string
	URL                    string
	RunningCommand         string
	FailingCommand         string
	UserCommand            string
	UserCommandError       string
	UserCommandErrorMarker string
	Var                    string
	Version                string
	Yes                    string
	No                     string

	// Usage Colors
	UsageCommand string
	UsageOption  string
	UsageFile    string
	UsageVar     string
	UsageURL     string
}

// Colors is the global instance for application output.
// Values are stored in [fg:bg:flags] style format and resolved to ANSI by the parser.
var Colors AppColors

func init() {
	Colors = AppColors{
		// Base Codes
		Reset:     "[-]",
		Bold:      "[::B]",
		Dim:       "[::D]",
		Underline: "[::U]",
		Blink:     "[::L]",
		Reverse:   "[::R]",

		// Base Colors (Foreground)
		Black:   "[black]",
		Red:     "[red]",
		Green:   "[green]",
		Yellow:  "[yellow]",
		Blue:    "[blue]",
		Magenta: "[magenta]",
		Cyan:    "[cyan]",
		White:   "[white]",

		// Base Colors (Background)
		BlackBg:   "[:black]",
		RedBg:     "[:red]",
		GreenBg:   "[:green]",
		YellowBg:  "[:yellow]",
		BlueBg:    "[:blue]",
		MagentaBg: "[:magenta]",
		CyanBg:    "[:cyan]",
		WhiteBg:   "[:white]",

		// Semantic Colors
		Timestamp:              "[-]",
		Trace:                  "[blue]",
		Debug:                  "[blue]",
		Info:                   "[blue]",
		Notice:                 "[green]",
		Warn:                   "[yellow]",
		Error:                  "[red]",
		Fatal:                  "[white:red]",
		FatalFooter:            "[-]",
		TraceHeader:            "[red]",
		TraceFooter:            "[red]",
		TraceFrameNumber:       "[red]",
		TraceFrameLines:        "[red]",
		TraceSourceFile:        "[cyan::B]",
		TraceLineNumber:        "[yellow::B]",
		TraceFunction:          "[green::B]",
		ApplicationName:        "[cyan::B]",
		Stack:                  "[cyan]",
		Endpoint:               "[cyan]",
		File:                   "[cyan::B]",
		Folder:                 "[cyan::B]",
		Volume:                 "[cyan]",
		URL:                    "[cyan::U]",
		RunningCommand:         "[green::B]",
		FailingCommand:         "[red]",
		UserCommand:            "[yellow::B]",
		UserCommandError:       "[red::U]",
		UserCommandErrorMarker: "[red]",
		Var:                    "[magenta]",
		Version:                "[cyan]",
		Yes:                    "[green]",
		No:                     "[red]",

		// Usage Colors
		UsageCommand: "[yellow::B]",
		UsageOption:  "[yellow]",
		UsageFile:    "[cyan::B]",
		UsageVar:     "[magenta]",
		UsageURL:     "[cyan::U]",
	}
	BuildColorMap()
}
