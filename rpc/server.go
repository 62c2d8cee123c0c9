package stockrpc

import (
	"errors"
	"fmt"
	"io"
	"stockroom"
	stockmsgpack "stockroom/msgpack"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

var ServerFuncs = []string{
	"ListIngredients",
	"AddIngredient",
	"UpdateIngredient",
	"SetStockLevel",
	"Restock",
	"ListProducts",
	"AddProduct",
	"DeleteProduct",
	"EstimateVariableCost",
	"ListCustomers",
	"AddCustomer",
	"ListOrders",
	"GetOrder",
	"CreateOrder",
	"SetOrderStatus",
	"DeleteOrder",
	"LowStock",
	"Dashboard",
	"ProductionRequirements",
	"ProductCosting",
	"Snapshot",
}

func StrsContains(strs []string, searchVal string) bool {
	for i := range strs {
		if strs[i] == searchVal {
			return true
		}
	}
	return false
}

// argFuncs lists the functions that refuse to run without an "arg".
var argFuncs = []string{
	"AddIngredient", "UpdateIngredient", "SetStockLevel", "Restock",
	"AddProduct", "DeleteProduct", "EstimateVariableCost", "AddCustomer",
	"GetOrder", "CreateOrder", "SetOrderStatus", "DeleteOrder",
}

// Server executes request packets against one Stockroom, one packet at a time.
type Server struct {
	stock    *stockroom.Stockroom
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewServer(stock *stockroom.Stockroom, logger zerolog.Logger) *Server {
	return &Server{
		stock:    stock,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Server) ProcessPkt(pkt *Packet) *Packet {
	// layer 0, check func
	funcBytes, ok := pkt.B["function"]
	if !ok {
		return CreateRespPktErr(pkt.ID, CodeNoFunc, ErrReqHasNoFunc)
	}
	funcStr := string(funcBytes)
	if !StrsContains(ServerFuncs, funcStr) {
		return CreateRespPktErr(pkt.ID, CodeNoSuchFunc, fmt.Errorf("%w: %s", ErrNoSuchFunc, funcStr))
	}

	// layer 1, check arg ok
	argBytes, argOk := pkt.B["arg"]
	if argOk && len(argBytes) == 0 {
		argOk = false
	}
	if !argOk && StrsContains(argFuncs, funcStr) {
		return CreateRespPktErr(pkt.ID, CodeNoArg, ErrReqHasNoArg)
	}

	// layer last
	result, err := s.exec(funcStr, argBytes)
	if err != nil {
		var argErr *argError
		if errors.As(err, &argErr) {
			return CreateRespPktErr(pkt.ID, argErr.code, argErr.err)
		}
		s.logger.Debug().Err(err).Str("function", funcStr).Str("id", pkt.ID).Msg("request failed")
		return CreateRespPktErr(pkt.ID, CodeOf(err), err)
	}
	return CreateRespPkt(pkt.ID, CodeOK, result, "ok")
}

type argError struct {
	code int32
	err  error
}

func (e *argError) Error() string { return e.err.Error() }

// decodeArg unmarshals and validates the request argument.
func (s *Server) decodeArg(argBytes []byte, arg any) error {
	if err := msgpack.Unmarshal(argBytes, arg); err != nil {
		return &argError{code: CodeUnmarshal, err: err}
	}
	if err := s.validate.Struct(arg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			err = fmt.Errorf("%w: field %s failed %s", stockroom.ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return &argError{code: CodeInvalidInput, err: err}
	}
	return nil
}

func (s *Server) exec(funcStr string, argBytes []byte) (any, error) {
	switch funcStr {
	case "ListIngredients":
		return ingredients(s.stock.Ingredients()), nil
	case "LowStock":
		return ingredients(s.stock.LowStock()), nil
	case "AddIngredient":
		var arg IngredientArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		ing, err := arg.toIngredient()
		if err != nil {
			return nil, err
		}
		added, err := s.stock.AddIngredient(ing)
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewIngredient(added), nil
	case "UpdateIngredient":
		var arg UpdateIngredientArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		current, ok := s.stock.Ingredient(arg.ID)
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %s", stockroom.ErrNotFound, arg.ID)
		}
		edit, err := arg.toEdit(current)
		if err != nil {
			return nil, err
		}
		updated, err := s.stock.UpdateIngredient(arg.ID, edit)
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewIngredient(updated), nil
	case "SetStockLevel", "Restock":
		var arg StockArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		amount, cost, err := arg.toDisplay()
		if err != nil {
			return nil, err
		}
		var updated stockroom.Ingredient
		if funcStr == "Restock" {
			updated, err = s.stock.Restock(arg.ID, amount, cost)
		} else {
			updated, err = s.stock.SetStockAmount(arg.ID, amount, cost)
		}
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewIngredient(updated), nil
	case "ListProducts":
		products := s.stock.Products()
		out := make([]stockmsgpack.Product, 0, len(products))
		for _, p := range products {
			out = append(out, stockmsgpack.NewProduct(p))
		}
		return out, nil
	case "AddProduct":
		var arg ProductArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		p, err := arg.toProduct()
		if err != nil {
			return nil, err
		}
		added, err := s.stock.AddProduct(p)
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewProduct(added), nil
	case "DeleteProduct":
		var arg IDArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		return nil, s.stock.DeleteProduct(arg.ID)
	case "EstimateVariableCost":
		var arg CostArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		recipe, err := toRecipe(arg.Recipe)
		if err != nil {
			return nil, err
		}
		cost, err := s.stock.EstimateVariableCost(recipe)
		if err != nil {
			return nil, err
		}
		return CostResult{Cost: cost.String()}, nil
	case "ListCustomers":
		customers := s.stock.Customers()
		out := make([]stockmsgpack.Customer, 0, len(customers))
		for _, c := range customers {
			out = append(out, stockmsgpack.NewCustomer(c))
		}
		return out, nil
	case "AddCustomer":
		var arg CustomerArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		added, err := s.stock.AddCustomer(stockroom.Customer{ID: arg.ID, Name: arg.Name, Phone: arg.Phone})
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewCustomer(added), nil
	case "ListOrders":
		orders := s.stock.Orders()
		out := make([]stockmsgpack.Order, 0, len(orders))
		for _, o := range orders {
			out = append(out, stockmsgpack.NewOrder(o))
		}
		return out, nil
	case "GetOrder":
		var arg IDArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		o, ok := s.stock.Order(arg.ID)
		if !ok {
			return nil, fmt.Errorf("%w: order %s", stockroom.ErrNotFound, arg.ID)
		}
		return stockmsgpack.NewOrder(o), nil
	case "CreateOrder":
		var arg OrderArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		req, err := arg.toRequest()
		if err != nil {
			return nil, err
		}
		o, err := s.stock.PlaceOrder(req)
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewOrder(o), nil
	case "SetOrderStatus":
		var arg StatusArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		status, err := stockroom.ParseOrderStatus(arg.Status)
		if err != nil {
			return nil, err
		}
		o, err := s.stock.SetOrderStatus(arg.ID, status)
		if err != nil {
			return nil, err
		}
		return stockmsgpack.NewOrder(o), nil
	case "DeleteOrder":
		var arg IDArg
		if err := s.decodeArg(argBytes, &arg); err != nil {
			return nil, err
		}
		return nil, s.stock.DeleteOrder(arg.ID)
	case "Dashboard":
		return newDashboardResult(s.stock.Dashboard()), nil
	case "ProductionRequirements":
		reqs, err := s.stock.Snapshot().ProductionRequirements()
		if err != nil {
			return nil, err
		}
		out := make([]RequirementResult, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, newRequirementResult(r))
		}
		return out, nil
	case "ProductCosting":
		costs, err := s.stock.Snapshot().ProductCosting()
		if err != nil {
			return nil, err
		}
		out := make([]ProductCostResult, 0, len(costs))
		for _, c := range costs {
			out = append(out, newProductCostResult(c))
		}
		return out, nil
	case "Snapshot":
		return stockmsgpack.NewSnapshot(s.stock.Snapshot(), time.Now()), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchFunc, funcStr)
}

func ingredients(list []stockroom.Ingredient) []stockmsgpack.Ingredient {
	out := make([]stockmsgpack.Ingredient, 0, len(list))
	for _, ing := range list {
		out = append(out, stockmsgpack.NewIngredient(ing))
	}
	return out
}

// Serve reads request packets from r until EOF and writes one response per request
// to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	var buffer PacketBuffer
	chunk := make([]byte, 4096)
	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			pkts, err := buffer.Feed(chunk[:n])
			for _, pkt := range pkts {
				if pkt.Type != TypeRequest {
					s.logger.Warn().Str("id", pkt.ID).Int16("type", pkt.Type).Msg("ignoring non-request packet")
					continue
				}
				if err := s.respond(w, s.ProcessPkt(pkt)); err != nil {
					return err
				}
			}
			if err != nil {
				return fmt.Errorf("decode packet: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

func (s *Server) respond(w io.Writer, resp *Packet) error {
	data, err := EncodePacket(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
