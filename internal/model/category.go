package model

// MajorGroup is the coarse tenant classification derived from the raw
// retail category on a source row.
type MajorGroup string

const (
	GroupAnchorsMajors        MajorGroup = "anchors_majors"
	GroupInlineRetail         MajorGroup = "inline_retail"
	GroupFoodBeverage         MajorGroup = "food_beverage"
	GroupServices             MajorGroup = "services"
	GroupEntertainmentLeisure MajorGroup = "entertainment_leisure"
	GroupOtherNonRetail       MajorGroup = "other_nonretail"
	GroupSeasonalPopup        MajorGroup = "seasonal_popup"
	GroupVacant               MajorGroup = "vacant"
)

// CategoryMap maps raw retail category strings, exactly as they appear
// in source files, to major groups. Lookups are case-sensitive.
type CategoryMap map[string]MajorGroup

// Lookup returns the group for a category. Unmapped categories fall
// back to the other/non-retail bucket with ok=false so callers can log
// them.
func (m CategoryMap) Lookup(category string) (MajorGroup, bool) {
	if g, ok := m[category]; ok {
		return g, true
	}
	return GroupOtherNonRetail, false
}

// DefaultCategoryGroups is the standing category taxonomy. Entries are
// keyed by the literal source spelling, including the lowercase "bank"
// variant seen in production CSVs.
var DefaultCategoryGroups = CategoryMap{
	// Anchors & majors
	"Big Box | Retail":           GroupAnchorsMajors,
	"Big Box | Home Improvement": GroupAnchorsMajors,
	"Pharmacy | Anchor":          GroupAnchorsMajors,
	"Department Store":           GroupAnchorsMajors,
	"Supermarket":                GroupAnchorsMajors,
	"Discount Store":             GroupAnchorsMajors,
	"Hypermarket":                GroupAnchorsMajors,
	"Wholesale Club":             GroupAnchorsMajors,

	// Inline retail
	"Apparel (Adult)":            GroupInlineRetail,
	"Apparel (Athletic)":         GroupInlineRetail,
	"Apparel (Activewear)":       GroupInlineRetail,
	"Apparel (Childrens)":        GroupInlineRetail,
	"Apparel (Discounted)":       GroupInlineRetail,
	"Apparel (Family)":           GroupInlineRetail,
	"Apparel (Maternity)":        GroupInlineRetail,
	"Apparel (Mens)":             GroupInlineRetail,
	"Apparel (Outlet)":           GroupInlineRetail,
	"Apparel (Plus sizes)":       GroupInlineRetail,
	"Apparel (Uniforms)":         GroupInlineRetail,
	"Apparel (Upscale)":          GroupInlineRetail,
	"Apparel (Womens)":           GroupInlineRetail,
	"Art Gallery":                GroupInlineRetail,
	"Art Supplies":               GroupInlineRetail,
	"Auto Parts":                 GroupInlineRetail,
	"Bagels":                     GroupInlineRetail,
	"Bakery":                     GroupInlineRetail,
	"Beauty Supplies":            GroupInlineRetail,
	"Beer Distributor":           GroupInlineRetail,
	"Bookstore":                  GroupInlineRetail,
	"Boutique":                   GroupInlineRetail,
	"Butcher / Meat Products":    GroupInlineRetail,
	"Cannabis & CBD":             GroupInlineRetail,
	"Cabinetry":                  GroupInlineRetail,
	"Camera Store":               GroupInlineRetail,
	"Cards":                      GroupInlineRetail,
	"Cigars and Cigarettes":      GroupInlineRetail,
	"Computers":                  GroupInlineRetail,
	"Consignment":                GroupInlineRetail,
	"Crafts":                     GroupInlineRetail,
	"Electronics":                GroupInlineRetail,
	"Fabrics":                    GroupInlineRetail,
	"Farming Supplies":           GroupInlineRetail,
	"Florists":                   GroupInlineRetail,
	"Flooring Materials":         GroupInlineRetail,
	"Food or Beverage Specialty": GroupInlineRetail,
	"Formalwear (Bridal)":        GroupInlineRetail,
	"Formalwear (Tuxedo)":        GroupInlineRetail,
	"Framing & Supplies":         GroupInlineRetail,
	"Furniture":                  GroupInlineRetail,
	"Gift Specialties":           GroupInlineRetail,
	"Health":                     GroupInlineRetail,
	"Home Appliances":            GroupInlineRetail,
	"Home Building":              GroupInlineRetail,
	"Home Furnishings":           GroupInlineRetail,
	"Housewares":                 GroupInlineRetail,
	"Jewelry":                    GroupInlineRetail,
	"Leather Goods":              GroupInlineRetail,
	"Lingerie":                   GroupInlineRetail,
	"Liquor & Wine":              GroupInlineRetail,
	"Martial Arts":               GroupInlineRetail,
	"Mattress Store":             GroupInlineRetail,
	"Mobile Phone Sales":         GroupInlineRetail,
	"Music Store":                GroupInlineRetail,
	"Musical Instruments":        GroupInlineRetail,
	"Paint Stores":               GroupInlineRetail,
	"Party Goods":                GroupInlineRetail,
	"Pawn Shop":                  GroupInlineRetail,
	"Pet Supplies":               GroupInlineRetail,
	"Pet Sales":                  GroupInlineRetail,
	"Plants":                     GroupInlineRetail,
	"Pools":                      GroupInlineRetail,
	"Shoes":                      GroupInlineRetail,
	"Signs & Banners":            GroupInlineRetail,
	"Sporting Goods":             GroupInlineRetail,
	"Stationery":                 GroupInlineRetail,
	"Sunglasses":                 GroupInlineRetail,
	"Surplus":                    GroupInlineRetail,
	"Thrift Stores":              GroupInlineRetail,
	"Tobacco":                    GroupInlineRetail,
	"Toys & Hobbies":             GroupInlineRetail,
	"Variety Store":              GroupInlineRetail,
	"Upscale/Luxury":             GroupInlineRetail,

	// Food & beverage
	"Bar":                       GroupFoodBeverage,
	"Brewery":                   GroupFoodBeverage,
	"Coffee Shop":               GroupFoodBeverage,
	"Craft Beer Bar":            GroupFoodBeverage,
	"Craft Beer Sales":          GroupFoodBeverage,
	"Delicatessen":              GroupFoodBeverage,
	"Desserts (Casual)":         GroupFoodBeverage,
	"Ice Cream Shop":            GroupFoodBeverage,
	"Restaurant | Asian":        GroupFoodBeverage,
	"Restaurant | Breakfast":    GroupFoodBeverage,
	"Restaurant | Burger":       GroupFoodBeverage,
	"Restaurant | Chinese":      GroupFoodBeverage,
	"Restaurant | Fast Casual":  GroupFoodBeverage,
	"Restaurant | Fast Food":    GroupFoodBeverage,
	"Restaurant | Full Service": GroupFoodBeverage,
	"Restaurant | Healthy":      GroupFoodBeverage,
	"Restaurant | Indian":       GroupFoodBeverage,
	"Restaurant | Italian":      GroupFoodBeverage,
	"Restaurant | Japanese":     GroupFoodBeverage,
	"Restaurant | Mexican":      GroupFoodBeverage,
	"Restaurant | Thai":         GroupFoodBeverage,
	"Restaurant | Vegan":        GroupFoodBeverage,
	"Pizza (Casual)":            GroupFoodBeverage,
	"Pizza (Full Service)":      GroupFoodBeverage,
	"Sports Bar":                GroupFoodBeverage,

	// Services
	"Auto Body & Collision":          GroupServices,
	"Auto Retailers":                 GroupServices,
	"Bank":                           GroupServices,
	"bank":                           GroupServices,
	"Car Audio":                      GroupServices,
	"Car Care and Service":           GroupServices,
	"Car Rental":                     GroupServices,
	"Car Wash":                       GroupServices,
	"Check Cashing":                  GroupServices,
	"Cosmetic/Aesthetic Services":    GroupServices,
	"Delivery/Fulfillment Services":  GroupServices,
	"Dentistry":                      GroupServices,
	"Dry Cleaning":                   GroupServices,
	"Education (Childcare)":          GroupServices,
	"Education (Learning Centers)":   GroupServices,
	"Education (Schools)":            GroupServices,
	"Eye Care":                       GroupServices,
	"Eyewear":                        GroupServices,
	"Eyelash Salon":                  GroupServices,
	"Exercise Studio":                GroupServices,
	"Financial":                      GroupServices,
	"Flooring Installation (Carpet)": GroupServices,
	"Gas Station":                    GroupServices,
	"Gym":                            GroupServices,
	"Hair Salon (Womens)":            GroupServices,
	"Hair Salon (Mens)":              GroupServices,
	"Hair Salon (Childrens)":         GroupServices,
	"Hair Salon (Unisex)":            GroupServices,
	"Insurance Agent/Broker":         GroupServices,
	"Laundromat":                     GroupServices,
	"Mail/Shipping Services":         GroupServices,
	"Massage":                        GroupServices,
	"Medical Center":                 GroupServices,
	"Medical Practice":               GroupServices,
	"Nail Salon":                     GroupServices,
	"Office Supplies":                GroupServices,
	"Other":                          GroupServices,
	"Physical Therapy":               GroupServices,
	"Printing":                       GroupServices,
	"Real Estate Agency":             GroupServices,
	"Shipping":                       GroupServices,
	"Shoe Repair":                    GroupServices,
	"Tailoring":                      GroupServices,
	"Tax Services":                   GroupServices,
	"Therapy Services":               GroupServices,
	"Tires":                          GroupServices,
	"Tutoring":                       GroupServices,
	"Weight Control":                 GroupServices,
	"Wellness Treatments":            GroupServices,

	// Entertainment / leisure
	"Amusement":              GroupEntertainmentLeisure,
	"Entertainment (Adult)":  GroupEntertainmentLeisure,
	"Entertainment (Family)": GroupEntertainmentLeisure,
	"Indoor Golf":            GroupEntertainmentLeisure,
	"Movie Theater":          GroupEntertainmentLeisure,
	"Theatre":                GroupEntertainmentLeisure,
	"Dance Studio":           GroupEntertainmentLeisure,
	"Swim Schools":           GroupEntertainmentLeisure,
	"Music":                  GroupEntertainmentLeisure,
	"Flea Markets":           GroupEntertainmentLeisure,

	// Other / non-retail
	"Campus Site":              GroupOtherNonRetail,
	"Convenience & Gas":        GroupOtherNonRetail,
	"Equipment Rental":         GroupOtherNonRetail,
	"Funeral Home":             GroupOtherNonRetail,
	"Hotel Lobby":              GroupOtherNonRetail,
	"Hotel":                    GroupOtherNonRetail,
	"Law Firm":                 GroupOtherNonRetail,
	"Mixed Use":                GroupOtherNonRetail,
	"Multitenant Unit":         GroupOtherNonRetail,
	"On-Site Property Manager": GroupOtherNonRetail,
	"Senior Care Facilities":   GroupOtherNonRetail,
	"Storage Facilities":       GroupOtherNonRetail,
	"Transit Terminal":         GroupOtherNonRetail,
	"Travel Agency":            GroupOtherNonRetail,
	"Truck Stop":               GroupOtherNonRetail,

	// Seasonal / pop-up
	"Seasonal & Pop Up": GroupSeasonalPopup,

	// Vacant
	"Vacant": GroupVacant,
}
