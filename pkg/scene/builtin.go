// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scene

import "context"

const (
	StorageSound   = "storage-sound"
	ShowPaper      = "show-paper"
	MirrorUnlocked = "mirror-unlocked"

	// PaperObject is the hidden room object revealed by ShowPaper.
	PaperObject = "map-paper"
)

const (
	storageSoundMessage   = "Something made a noise in the storage room."
	showPaperMessage      = "A folded piece of paper slipped out of the cabinet."
	mirrorUnlockedMessage = "STAGE 1 laboratory CLEAR"
)

// RegisterBuiltins adds the scenes the default catalog refers to.
func RegisterBuiltins(r *Registry) error {
	builtins := []Handler{
		NewFunc(StorageSound, notify(storageSoundMessage)),
		NewFunc(ShowPaper, func(ctx context.Context, n Notifier) error {
			if rv, ok := n.(Revealer); ok {
				rv.Reveal(PaperObject)
				return nil
			}
			n.Notify(showPaperMessage)
			return nil
		}),
		NewFunc(MirrorUnlocked, notify(mirrorUnlockedMessage)),
	}
	for _, h := range builtins {
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func notify(message string) func(ctx context.Context, n Notifier) error {
	return func(ctx context.Context, n Notifier) error {
		n.Notify(message)
		return nil
	}
}
