// Package prompt builds the instruction text sent to the language model and
// condenses retrieved examples into a bounded context block.
package prompt

import (
	"strings"
)

// Format selects how the model should lay out its reply.
type Format string

const (
	FormatBulleted Format = "bulleted"
	FormatTabular  Format = "tabular"
	FormatCode     Format = "code"
	FormatRich     Format = "rich"
)

// Length selects the reply length directive.
type Length string

const (
	LengthShort    Length = "short"
	LengthDetailed Length = "detailed"
)

// ParseFormat maps a request string onto a Format, defaulting to rich text.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(s)) {
	case FormatBulleted, FormatTabular, FormatCode:
		return Format(strings.ToLower(s))
	default:
		return FormatRich
	}
}

// ParseLength maps a request string onto a Length, defaulting to detailed.
func ParseLength(s string) Length {
	if Length(strings.ToLower(s)) == LengthShort {
		return LengthShort
	}
	return LengthDetailed
}

// Options parameterize composition. Zero values select the defaults.
type Options struct {
	Role   string
	Style  string
	Format Format
	Length Length
}

// DefaultRole is the assistant persona used when the request names none.
const DefaultRole = "Sen çalışanların haftalık mesai verilerini analiz eden deneyimli bir insan kaynakları asistanısın."

// DefaultStyle is the reply style used when the request names none.
const DefaultStyle = "Profesyonel, net ve anlaşılır bir dil kullan."

// checklist is the fixed set of analysis criteria appended to every prompt.
var checklist = []string{
	"Toplam çalışma saatini hesapla.",
	"Günlük ortalama mesaiyi belirt.",
	"Güçlü yönleri ve eksikleri vurgula.",
	"Sağlık ve verimlilik açısından değerlendir.",
	"Somut iyileştirme önerileri sun.",
}

// Compose builds the final instruction text from the user prompt, the
// summarized retrieval context and the formatting directives. Pure function:
// identical inputs always produce identical output.
func Compose(userPrompt, context string, opts Options) string {
	role := opts.Role
	if role == "" {
		role = DefaultRole
	}
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}

	var b strings.Builder
	b.WriteString(role)
	b.WriteString("\n")
	b.WriteString(style)
	b.WriteString("\n")
	b.WriteString(formatDirective(opts.Format))
	b.WriteString("\n")
	b.WriteString(lengthDirective(opts.Length))
	b.WriteString("\n")

	if context != "" {
		b.WriteString("\nBenzer geçmiş örnekler:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}

	b.WriteString("\nSoru:\n")
	b.WriteString(userPrompt)
	b.WriteString("\n\nAnalizinde şu maddeleri mutlaka ele al:\n")
	for i, item := range checklist {
		b.WriteString(string(rune('1' + i)))
		b.WriteString(". ")
		b.WriteString(item)
		b.WriteString("\n")
	}

	return b.String()
}

func formatDirective(f Format) string {
	switch f {
	case FormatBulleted:
		return "Yanıtını madde işaretli listeler halinde düzenle."
	case FormatTabular:
		return "Yanıtını tablo formatında düzenle."
	case FormatCode:
		return "Yanıtını tek bir kod bloğu içinde ver."
	default:
		return "Yanıtını başlıklar ve vurgular içeren zengin metin olarak düzenle."
	}
}

func lengthDirective(l Length) string {
	if l == LengthShort {
		return "Kısa ve öz yanıt ver."
	}
	return "Ayrıntılı ve kapsamlı yanıt ver."
}
