package model

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type FieldType string

const (
	FieldTypeNumber   FieldType = "number"
	FieldTypeText     FieldType = "text"
	FieldTypeDate     FieldType = "date"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeSelect   FieldType = "select"
	FieldTypeBoolean  FieldType = "boolean"
)

type OwnershipType string

const (
	OwnershipPersonal OwnershipType = "personal"
	OwnershipShared   OwnershipType = "shared"
	OwnershipBoth     OwnershipType = "both"
)

type FlowKind string

const (
	FlowNone   FlowKind = ""
	FlowAdHoc  FlowKind = "adhoc"
	FlowWizard FlowKind = "wizard"
)

type AdHocKind string

const (
	AdHocCreateHousehold AdHocKind = "create_household"
	AdHocJoinHousehold   AdHocKind = "join_household"
)
