package common

// AgencyAll is the sentinel agency filter meaning "no agency restriction".
const AgencyAll = "ALL"
