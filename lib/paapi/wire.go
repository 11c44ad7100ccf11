package paapi

// wire types for the GetItems operation. only the fields we request in
// Resources are declared; everything else upstream sends is dropped.

type getItemsRequest struct {
	ItemIds     []string `json:"ItemIds"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

var requestedResources = []string{
	"Images.Primary.Large",
	"Images.Primary.Medium",
	"ItemInfo.Title",
	"Offers.Listings.Price",
	"Offers.Listings.Availability.Type",
	"CustomerReviews.Count",
	"CustomerReviews.StarRating",
}

type wireImage struct {
	URL string `json:"URL"`
}

type wireItem struct {
	ASIN     string `json:"ASIN"`
	ItemInfo struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
	} `json:"ItemInfo"`
	Images struct {
		Primary struct {
			Medium wireImage `json:"Medium"`
			Large  wireImage `json:"Large"`
		} `json:"Primary"`
	} `json:"Images"`
	Offers struct {
		Listings []struct {
			Price struct {
				DisplayAmount string `json:"DisplayAmount"`
				Currency      string `json:"Currency"`
			} `json:"Price"`
			Availability struct {
				Type string `json:"Type"`
			} `json:"Availability"`
		} `json:"Listings"`
	} `json:"Offers"`
	CustomerReviews struct {
		StarRating struct {
			Value float64 `json:"Value"`
		} `json:"StarRating"`
		Count int `json:"Count"`
	} `json:"CustomerReviews"`
}

type getItemsResponse struct {
	ItemsResult struct {
		Items []wireItem `json:"Items"`
	} `json:"ItemsResult"`
}
