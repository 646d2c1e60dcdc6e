package config

type ServerConfig struct {
	Addr        string
	RepoBackend string
}

func LoadServer() ServerConfig {
	return ServerConfig{
		Addr:        getEnv("SERVER_ADDR", ":8080"),
		RepoBackend: getEnv("REPO_BACKEND", "pg"),
	}
}
