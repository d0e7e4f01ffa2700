package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bulglo/internal/ui/theme"
)

const bannerArt = ` ██████╗ ██╗   ██╗██╗      ██████╗ ██╗      ██████╗
 ██╔══██╗██║   ██║██║     ██╔════╝ ██║     ██╔═══██╗
 ██████╔╝██║   ██║██║     ██║  ███╗██║     ██║   ██║
 ██╔══██╗██║   ██║██║     ██║   ██║██║     ██║   ██║
 ██████╔╝╚██████╔╝███████╗╚██████╔╝███████╗╚██████╔╝
 ╚═════╝  ╚═════╝ ╚══════╝ ╚═════╝ ╚══════╝ ╚═════╝`

const bannerCompact = "B · U · L · G · L · O"

// bannerWidth is the column count of the full banner.
const bannerWidth = 54

// RenderBanner returns the BULGLO banner styled in the primary color.
// Uses a compact fallback when width is too narrow for the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
