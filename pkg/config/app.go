package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName          = "infobox"
	AppTitle         = "Information Box"
	LogFile          = "infobox.log"
	CfgFile          = "config.toml"
	HistoryDbFile    = "history.db"
	CfgEnv           = "INFOBOX_CFG"
	AppEnv           = "INFOBOX_APP"
	UserDir          = "user"
	LegacyIniFile    = "infobox.ini"
	FixScriptsDir    = "fixes.d"
	InfoRefreshDelay = 30 * time.Second
)
