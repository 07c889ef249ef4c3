package firestore

import "github.com/kayacancode/voice-network/pkg/domain/model"

var ErrNotFound = model.ErrNotFound
