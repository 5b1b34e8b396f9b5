package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorTeal           = lipgloss.Color("#00F19F") // highlights, sleep need
	ColorStrain         = lipgloss.Color("#0093E7") // strain and workouts
	ColorRecoveryBlue   = lipgloss.Color("#67AEE6") // recovery without a score
	ColorHighRecovery   = lipgloss.Color("#16EC06") // 67-100%
	ColorMediumRecovery = lipgloss.Color("#FFDE00") // 34-66%
	ColorLowRecovery    = lipgloss.Color("#FF0026") // 0-33%, errors
	ColorSleep          = lipgloss.Color("#7BA1BB") // sleep
)

var ColorBgLight = lipgloss.Color("#283339") // unfilled gauge arc
