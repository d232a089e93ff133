package models

import "fmt"

type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleWorker, RoleEmployer, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountBanned    AccountStatus = "banned"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	st := AccountStatus(s)
	switch st {
	case AccountActive, AccountSuspended, AccountBanned:
		return st, nil
	}
	return "", fmt.Errorf("unknown account status %q", s)
}

// CanSignIn reports whether an account in this status may obtain a token.
func (s AccountStatus) CanSignIn() bool {
	switch s {
	case AccountActive:
		return true
	case AccountSuspended, AccountBanned:
		return false
	}
	return false
}

type CertificateStatus string

const (
	CertificateNone     CertificateStatus = "none"
	CertificatePending  CertificateStatus = "pending"
	CertificateVerified CertificateStatus = "verified"
	CertificateRejected CertificateStatus = "rejected"
)

func ParseCertificateStatus(s string) (CertificateStatus, error) {
	st := CertificateStatus(s)
	switch st {
	case CertificateNone, CertificatePending, CertificateVerified, CertificateRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown certificate status %q", s)
}

// CategoryLevel is the depth of a node in the skill taxonomy.
type CategoryLevel string

const (
	LevelMain   CategoryLevel = "main"
	LevelSub    CategoryLevel = "sub"
	LevelDetail CategoryLevel = "detail"
)

func ParseCategoryLevel(s string) (CategoryLevel, error) {
	l := CategoryLevel(s)
	switch l {
	case LevelMain, LevelSub, LevelDetail:
		return l, nil
	}
	return "", fmt.Errorf("unknown category level %q", s)
}

// ChildLevel returns the level directly below l. Detail nodes have no children.
func (l CategoryLevel) ChildLevel() (CategoryLevel, bool) {
	switch l {
	case LevelMain:
		return LevelSub, true
	case LevelSub:
		return LevelDetail, true
	case LevelDetail:
		return "", false
	}
	return "", false
}

type VerificationSource string

const (
	SourceGallery VerificationSource = "gallery"
	SourceCamera  VerificationSource = "camera"
)

func ParseVerificationSource(s string) (VerificationSource, error) {
	v := VerificationSource(s)
	switch v {
	case SourceGallery, SourceCamera:
		return v, nil
	}
	return "", fmt.Errorf("unknown verification source %q", s)
}

type NotificationType string

const (
	NotifyNewApplication       NotificationType = "new_application"
	NotifyApplicationAccepted  NotificationType = "application_accepted"
	NotifyApplicationRejected  NotificationType = "application_rejected"
	NotifyApplicationWithdrawn NotificationType = "application_withdrawn"
	NotifyJobExpired           NotificationType = "job_expired"
)

func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	switch t {
	case NotifyNewApplication, NotifyApplicationAccepted, NotifyApplicationRejected,
		NotifyApplicationWithdrawn, NotifyJobExpired:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}
