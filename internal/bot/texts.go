package bot

import (
	"fmt"
	"time"

	"ingatbot/internal/remind"
)

// User-facing texts. The bot speaks Indonesian by default, matching its
// reminder prefixes.
const (
	exampleHintText     = `Contoh: "ingatkan saya besok jam 8 pagi olahraga" atau "remind me tomorrow 8pm call mom".`
	timePastText        = "Waktu pengingat sudah lewat. Tolong kirim ulang dengan waktu yang lebih jelas."
	processingErrorText = "Maaf, terjadi error saat memproses pesan."
)

// indonesianMonths are the id-ID abbreviated month names.
var indonesianMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// FormatWaktu renders a timestamp the way id-ID medium date / short time
// formatting does, e.g. "2 Jan 2024 08.00". Formatting is explicit rather
// than locale-driven so it is stable across platforms.
func FormatWaktu(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d.%02d",
		t.Day(), indonesianMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func confirmationText(fireAt time.Time) string {
	return fmt.Sprintf("Siap, akan diingatkan pada %s.", FormatWaktu(fireAt))
}

func deliveryText(reminder remind.Reminder, loc *time.Location) string {
	return fmt.Sprintf("⏰ Pengingat (%s): %s", FormatWaktu(reminder.FireAt.In(loc)), reminder.Note)
}
