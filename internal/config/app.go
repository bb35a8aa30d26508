package config

type AppConfig struct {
	Server ServerConfig
	Bots   BotsConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	botsCfg, err := LoadBots()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Bots:   botsCfg,
		Log:    logCfg,
	}, nil
}
