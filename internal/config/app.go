package config

type AppConfig struct {
	Server  ServerConfig
	Refresh RefreshConfig
	Log     LogConfig
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
	refreshCfg, err := LoadRefresh()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Refresh: refreshCfg,
		Log:     logCfg,
	}, nil
}
