// Package all registers every supported adapter via init().
package all

import (
	_ "github.com/tipline/tipline/internal/pkg/adapters/actionnet"
	_ "github.com/tipline/tipline/internal/pkg/adapters/covers"
	_ "github.com/tipline/tipline/internal/pkg/adapters/oddshark"
	_ "github.com/tipline/tipline/internal/pkg/adapters/pickswise"
	_ "github.com/tipline/tipline/internal/pkg/adapters/sportsgambler"
	_ "github.com/tipline/tipline/internal/pkg/adapters/wincomparator"
)
