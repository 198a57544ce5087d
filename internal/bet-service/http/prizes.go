package http

// Prize é um item do catálogo fixo de prêmios resgatáveis com pontos.
type Prize struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

// Catálogo estático; o resgate exige rollover zerado e saldo suficiente.
var prizeCatalog = []Prize{
	{ID: "scarf", Name: "Club scarf", Cost: 150},
	{ID: "ball", Name: "Official match ball", Cost: 300},
	{ID: "shirt", Name: "Signed shirt", Cost: 500},
	{ID: "vip-tour", Name: "Stadium VIP tour", Cost: 1000},
}

func findPrize(id string) (Prize, bool) {
	for _, p := range prizeCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Prize{}, false
}
