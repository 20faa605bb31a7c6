// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// Settings keys. Each settings field maps to exactly one row in the
// settings table; the aggregate is loaded and saved as a whole.
const (
	SettingSiteName         = "general.site_name"
	SettingSiteTagline      = "general.site_tagline"
	SettingContactEmail     = "general.contact_email"
	SettingContactPhone     = "general.contact_phone"
	SettingDefaultCurrency  = "general.default_currency"
	SettingLogoURL          = "branding.logo_url"
	SettingFaviconURL       = "branding.favicon_url"
	SettingPrimaryColor     = "branding.primary_color"
	SettingNotifyOnBooking  = "notifications.notify_on_booking"
	SettingNotifyOnContact  = "notifications.notify_on_contact"
	SettingNotifyEmail      = "notifications.notify_email"
	SettingSMTPHost         = "email.smtp_host"
	SettingSMTPPort         = "email.smtp_port"
	SettingSMTPUsername     = "email.smtp_username"
	SettingSMTPPassword     = "email.smtp_password"
	SettingSMTPFromAddress  = "email.from_address"
	SettingSMTPFromName     = "email.from_name"
	SettingMetaTitle        = "seo.meta_title"
	SettingMetaDescription  = "seo.meta_description"
	SettingMetaKeywords     = "seo.meta_keywords"
	SettingMaintenanceMode  = "security.maintenance_mode"
	SettingRequireApproval  = "security.require_host_approval"
	SettingSessionLifetime  = "security.session_lifetime_hours"
	SettingMaxLoginAttempts = "security.max_login_attempts"
)

// GeneralSettings holds site-wide identity settings.
type GeneralSettings struct {
	SiteName        string `json:"site_name"`
	SiteTagline     string `json:"site_tagline"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	DefaultCurrency string `json:"default_currency"`
}

// BrandingSettings holds look-and-feel settings consumed by the front end.
type BrandingSettings struct {
	LogoURL      string `json:"logo_url"`
	FaviconURL   string `json:"favicon_url"`
	PrimaryColor string `json:"primary_color"`
}

// NotificationSettings controls admin-facing notification side effects.
type NotificationSettings struct {
	NotifyOnBooking bool   `json:"notify_on_booking"`
	NotifyOnContact bool   `json:"notify_on_contact"`
	NotifyEmail     string `json:"notify_email"`
}

// EmailSettings holds the SMTP delivery configuration.
type EmailSettings struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	FromAddress  string `json:"from_address"`
	FromName     string `json:"from_name"`
}

// Enabled reports whether outgoing mail is configured.
func (e EmailSettings) Enabled() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

// SEOSettings holds default page metadata.
type SEOSettings struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
}

// SecuritySettings holds operational security toggles.
type SecuritySettings struct {
	MaintenanceMode      bool `json:"maintenance_mode"`
	RequireHostApproval  bool `json:"require_host_approval"`
	SessionLifetimeHours int  `json:"session_lifetime_hours"`
	MaxLoginAttempts     int  `json:"max_login_attempts"`
}

// Settings is the singleton site configuration aggregate. It is loaded
// wholesale, mutated through typed fields and persisted back in a single
// transaction to avoid partial-save inconsistency.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Branding      BrandingSettings     `json:"branding"`
	Notifications NotificationSettings `json:"notifications"`
	Email         EmailSettings        `json:"email"`
	SEO           SEOSettings          `json:"seo"`
	Security      SecuritySettings     `json:"security"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// DefaultSettings returns the settings used before an admin saves anything.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			SiteName:        "oRent",
			DefaultCurrency: "AED",
		},
		Notifications: NotificationSettings{
			NotifyOnBooking: true,
			NotifyOnContact: true,
		},
		Email: EmailSettings{
			SMTPPort: 587,
			FromName: "oRent",
		},
		Security: SecuritySettings{
			RequireHostApproval:  true,
			SessionLifetimeHours: 24,
			MaxLoginAttempts:     5,
		},
	}
}

// Flatten converts the aggregate into key/value rows for persistence.
// The key set is closed; adding a field means adding a key constant here.
func (s Settings) Flatten() map[string]string {
	return map[string]string{
		SettingSiteName:         s.General.SiteName,
		SettingSiteTagline:      s.General.SiteTagline,
		SettingContactEmail:     s.General.ContactEmail,
		SettingContactPhone:     s.General.ContactPhone,
		SettingDefaultCurrency:  s.General.DefaultCurrency,
		SettingLogoURL:          s.Branding.LogoURL,
		SettingFaviconURL:       s.Branding.FaviconURL,
		SettingPrimaryColor:     s.Branding.PrimaryColor,
		SettingNotifyOnBooking:  strconv.FormatBool(s.Notifications.NotifyOnBooking),
		SettingNotifyOnContact:  strconv.FormatBool(s.Notifications.NotifyOnContact),
		SettingNotifyEmail:      s.Notifications.NotifyEmail,
		SettingSMTPHost:         s.Email.SMTPHost,
		SettingSMTPPort:         strconv.Itoa(s.Email.SMTPPort),
		SettingSMTPUsername:     s.Email.SMTPUsername,
		SettingSMTPPassword:     s.Email.SMTPPassword,
		SettingSMTPFromAddress:  s.Email.FromAddress,
		SettingSMTPFromName:     s.Email.FromName,
		SettingMetaTitle:        s.SEO.MetaTitle,
		SettingMetaDescription:  s.SEO.MetaDescription,
		SettingMetaKeywords:     s.SEO.MetaKeywords,
		SettingMaintenanceMode:  strconv.FormatBool(s.Security.MaintenanceMode),
		SettingRequireApproval:  strconv.FormatBool(s.Security.RequireHostApproval),
		SettingSessionLifetime:  strconv.Itoa(s.Security.SessionLifetimeHours),
		SettingMaxLoginAttempts: strconv.Itoa(s.Security.MaxLoginAttempts),
	}
}

// SettingsFromRows rebuilds the aggregate from key/value rows.
// Missing keys keep their default values.
func SettingsFromRows(rows map[string]string) Settings {
	s := DefaultSettings()
	str := func(key string, dst *string) {
		if v, ok := rows[key]; ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := rows[key]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := rows[key]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str(SettingSiteName, &s.General.SiteName)
	str(SettingSiteTagline, &s.General.SiteTagline)
	str(SettingContactEmail, &s.General.ContactEmail)
	str(SettingContactPhone, &s.General.ContactPhone)
	str(SettingDefaultCurrency, &s.General.DefaultCurrency)
	str(SettingLogoURL, &s.Branding.LogoURL)
	str(SettingFaviconURL, &s.Branding.FaviconURL)
	str(SettingPrimaryColor, &s.Branding.PrimaryColor)
	boolean(SettingNotifyOnBooking, &s.Notifications.NotifyOnBooking)
	boolean(SettingNotifyOnContact, &s.Notifications.NotifyOnContact)
	str(SettingNotifyEmail, &s.Notifications.NotifyEmail)
	str(SettingSMTPHost, &s.Email.SMTPHost)
	integer(SettingSMTPPort, &s.Email.SMTPPort)
	str(SettingSMTPUsername, &s.Email.SMTPUsername)
	str(SettingSMTPPassword, &s.Email.SMTPPassword)
	str(SettingSMTPFromAddress, &s.Email.FromAddress)
	str(SettingSMTPFromName, &s.Email.FromName)
	str(SettingMetaTitle, &s.SEO.MetaTitle)
	str(SettingMetaDescription, &s.SEO.MetaDescription)
	str(SettingMetaKeywords, &s.SEO.MetaKeywords)
	boolean(SettingMaintenanceMode, &s.Security.MaintenanceMode)
	boolean(SettingRequireApproval, &s.Security.RequireHostApproval)
	integer(SettingSessionLifetime, &s.Security.SessionLifetimeHours)
	integer(SettingMaxLoginAttempts, &s.Security.MaxLoginAttempts)

	return s
}
