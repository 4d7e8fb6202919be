package domain

// SystemActorID attributes history rows written by automatic transitions.
const SystemActorID = "system"
