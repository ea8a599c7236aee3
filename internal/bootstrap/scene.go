// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-escape-room/pkg/scene"
	"github.com/sirupsen/logrus"
)

// InitScenes builds the scene registry.
//
// ============================================================
// DEVELOPER: Register custom scenes here.
// ============================================================
// A puzzle's nextScene tag is looked up in this registry after
// the player proceeds. Unknown tags are logged and ignored, so a
// catalog may name scenes this build does not know yet.
//
// Example:
//   registry.Register(scene.NewFunc("lights-out", func(ctx context.Context, n scene.Notifier) error {
//       n.Notify("The lights go out.")
//       return nil
//   }))
// ============================================================
func InitScenes() (*scene.Registry, error) {
	registry := scene.NewRegistry()
	if err := scene.RegisterBuiltins(registry); err != nil {
		return nil, fmt.Errorf("failed to register builtin scenes: %w", err)
	}

	logrus.Debugf("registered %d scenes", registry.Count())
	return registry, nil
}
