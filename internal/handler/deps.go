package handler

import (
	"circlechat/internal/app/chat"
	"circlechat/internal/configs"
)

// AppDeps bundles the shared collaborators the HTTP layer needs.
type AppDeps struct {
	Config  *configs.AppConfig
	Hub     *chat.Hub
	Gateway *chat.Gateway
}
