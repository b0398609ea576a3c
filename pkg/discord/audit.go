package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const auditColor = 0x5865F2

// AuditListener posts one embed per settings change
type AuditListener struct {
	sender Sender
}

// NewAuditListener creates an audit listener over sender
func NewAuditListener(sender Sender) *AuditListener {
	return &AuditListener{sender: sender}
}

// SettingsChanged sends the audit embed for change
func (a *AuditListener) SettingsChanged(ctx context.Context, change models.SettingsChange) error {
	if a == nil || a.sender == nil {
		return nil
	}
	return a.sender.Send(AuditEmbed(change))
}

// AuditEmbed renders a change as an embed
func AuditEmbed(change models.SettingsChange) *discordgo.MessageEmbed {
	s := change.Settings
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🛡️ | Configuración actualizada: %s", change.Collection),
		Description: summary(change.Collection, s),
		Color:       auditColor,
	}
	if !change.At.IsZero() {
		embed.Timestamp = change.At.Format("2006-01-02T15:04:05Z07:00")
	}
	if s != nil {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Países bloqueados", Value: fmt.Sprint(s.BlockedCount()), Inline: true},
			{Name: "Restricciones horarias", Value: fmt.Sprint(len(s.TimeRestrictions)), Inline: true},
			{Name: "Excepciones de afiliados", Value: fmt.Sprint(len(s.AffiliateExceptions)), Inline: true},
		}
	}
	return embed
}

func summary(col models.Collection, s *models.GeoBlockingSettings) string {
	if s == nil {
		return "> Sin datos"
	}
	switch col {
	case models.CollectionBlockedCountries:
		var codes []string
		for _, c := range s.BlockedCountries {
			if c.Blocked {
				codes = append(codes, c.Code)
			}
		}
		if len(codes) == 0 {
			return "> Ningún país bloqueado"
		}
		if len(codes) > 20 {
			return fmt.Sprintf("> `%s` y %d más", strings.Join(codes[:20], ", "), len(codes)-20)
		}
		return fmt.Sprintf("> `%s`", strings.Join(codes, ", "))
	case models.CollectionTimeRestrictions:
		enabled := 0
		for _, r := range s.TimeRestrictions {
			if r.Enabled {
				enabled++
			}
		}
		return fmt.Sprintf("> %d restricciones, %d activas", len(s.TimeRestrictions), enabled)
	case models.CollectionAffiliateExceptions:
		enabled := 0
		for _, a := range s.AffiliateExceptions {
			if a.Enabled {
				enabled++
			}
		}
		return fmt.Sprintf("> %d excepciones, %d activas", len(s.AffiliateExceptions), enabled)
	case models.CollectionBlockMessages:
		return fmt.Sprintf("> %d idiomas configurados", len(s.BlockMessages))
	default:
		return "> Configuración completa reemplazada"
	}
}
